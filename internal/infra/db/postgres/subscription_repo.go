package postgres

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"isp-selfcare/internal/domain"
	"isp-selfcare/internal/domain/model"
	"isp-selfcare/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, user_id, plan_id, payment_id, start_date, end_date, is_active, auto_renew, created_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, user_id, plan_id, payment_id, start_date, end_date, is_active, auto_renew, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  start_date=$5, end_date=$6, is_active=$7, auto_renew=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.PlanID, s.PaymentID, s.StartDate, s.EndDate, s.IsActive, s.AutoRenew, s.CreatedAt)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE user_id=$1 AND is_active=TRUE
 ORDER BY created_at DESC
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanSub(row)
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE user_id=$1
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()
	return collectSubs(rows)
}

func (r *subscriptionRepo) DeactivateActiveByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	const q = `UPDATE subscriptions SET is_active=FALSE WHERE user_id=$1 AND is_active=TRUE;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return 0, err
		default:
			return 0, domain.ErrOperationFailed
		}
	}
	return int(cmd.RowsAffected()), nil
}

func (r *subscriptionRepo) DeactivateExpired(ctx context.Context, tx repository.Tx, asOf time.Time) (int, error) {
	const q = `UPDATE subscriptions SET is_active=FALSE WHERE is_active=TRUE AND end_date < $1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, asOf)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return 0, err
		default:
			return 0, domain.ErrOperationFailed
		}
	}
	return int(cmd.RowsAffected()), nil
}

// LockUser serializes concurrent activations for one user. The advisory
// lock is transaction-scoped, so it only has effect when qx is a real tx.
func (r *subscriptionRepo) LockUser(ctx context.Context, tx repository.Tx, userID string) error {
	if _, ok := tx.(pgx.Tx); !ok {
		return nil
	}
	_, err := execSQL(ctx, r.pool, tx, "SELECT pg_advisory_xact_lock($1)", hashToInt64(userID))
	return err
}

func (r *subscriptionRepo) ListRenewalsDue(ctx context.Context, tx repository.Tx, before time.Time) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE is_active=TRUE AND auto_renew=TRUE AND end_date <= $1
 ORDER BY end_date ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, before)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()
	return collectSubs(rows)
}

func (r *subscriptionRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	const q = `
SELECT plan_id, COUNT(*)
  FROM subscriptions
 WHERE is_active=TRUE
 GROUP BY plan_id;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()
	m := make(map[string]int)
	for rows.Next() {
		var planID string
		var c int
		if err := rows.Scan(&planID, &c); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		m[planID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}

func scanSub(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.PaymentID, &s.StartDate, &s.EndDate, &s.IsActive, &s.AutoRenew, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func collectSubs(rows pgx.Rows) ([]*model.Subscription, error) {
	var out []*model.Subscription
	for rows.Next() {
		s := &model.Subscription{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.PlanID, &s.PaymentID, &s.StartDate, &s.EndDate, &s.IsActive, &s.AutoRenew, &s.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
