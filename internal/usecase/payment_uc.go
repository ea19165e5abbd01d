package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"isp-selfcare/internal/domain"
	"isp-selfcare/internal/domain/model"
	"isp-selfcare/internal/domain/ports/adapter"
	"isp-selfcare/internal/domain/ports/repository"
	"isp-selfcare/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// Initiate creates a pending payment for a plan and returns the gateway
	// redirect URL. Rejects unknown or inactive plans before any row exists.
	Initiate(ctx context.Context, userID, planID string) (*model.Payment, string, error)
	// Verify finalizes a payment by reference. Idempotent: a payment already
	// in a terminal state is returned as-is with zero side effects.
	Verify(ctx context.Context, reference string) (*model.Payment, error)
	// History lists a user's payments, newest first.
	History(ctx context.Context, userID string) ([]*model.Payment, error)
}

type paymentUC struct {
	payments    repository.PaymentRepository
	subs        repository.SubscriptionRepository
	plans       repository.PlanRepository
	users       repository.UserRepository
	gateway     adapter.PaymentGateway
	tm          repository.TransactionManager
	callbackURL string
	currency    string
	log         *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	callbackURL, currency string,
	logger *zerolog.Logger,
) *paymentUC {
	l := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{
		payments:    payments,
		subs:        subs,
		plans:       plans,
		users:       users,
		gateway:     gateway,
		tm:          tm,
		callbackURL: callbackURL,
		currency:    currency,
		log:         &l,
	}
}

func (u *paymentUC) Initiate(ctx context.Context, userID, planID string) (*model.Payment, string, error) {
	plan, err := u.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		return nil, "", err
	}
	if !plan.IsActive {
		return nil, "", domain.ErrPlanNotAvailable
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	p := &model.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		PlanID:      planID,
		AmountMinor: plan.PriceMinor,
		Currency:    u.currency,
		Reference:   model.NewPaymentReference(userID),
		Status:      model.PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, "", err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))

	res := u.gateway.Initialize(ctx, adapter.InitializeRequest{
		Email:       user.Email,
		AmountMinor: p.AmountMinor,
		Reference:   p.Reference,
		PlanName:    plan.Name,
		CallbackURL: u.callbackURL,
	})
	if !res.OK {
		// the attempt is dead; the row stays behind as a failed audit record
		if _, err := u.payments.UpdateStatusIfPending(ctx, repository.NoTX, p.ID, model.PaymentStatusFailed, nil, nil); err != nil {
			u.log.Error().Err(err).Str("payment_id", p.ID).Msg("mark failed after initialize error")
		}
		p.Status = model.PaymentStatusFailed
		metrics.IncPayment(string(model.PaymentStatusFailed))
		u.log.Warn().Str("reference", p.Reference).Str("gateway_msg", res.Message).Msg("gateway initialize failed")
		return p, "", fmt.Errorf("%w: %s", domain.ErrGatewayDeclined, res.Message)
	}

	u.log.Info().Str("reference", p.Reference).Str("plan_id", planID).Int64("amount_minor", p.AmountMinor).Msg("payment initiated")
	return p, res.AuthorizationURL, nil
}

func (u *paymentUC) Verify(ctx context.Context, reference string) (*model.Payment, error) {
	p, err := u.payments.FindByReference(ctx, repository.NoTX, reference)
	if err != nil {
		return nil, err
	}

	// Idempotent re-verification: terminal payments report their stored
	// status and nothing is written or re-executed.
	if p.Status.IsTerminal() {
		u.log.Debug().Str("reference", reference).Str("status", string(p.Status)).Msg("re-verify of terminal payment skipped")
		return p, nil
	}

	// One gateway round-trip, outside the DB transaction. Any transport
	// fault arrives here as a non-success result, never as a panic/error.
	res := u.gateway.Verify(ctx, reference)

	var (
		out          *model.Payment
		transitioned bool
	)
	txErr := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		// Serialize activations per user so two racing verifies cannot both
		// observe "no active subscription".
		if err := u.subs.LockUser(ctx, tx, p.UserID); err != nil {
			return err
		}

		if !res.Succeeded() {
			updated, err := u.payments.UpdateStatusIfPending(ctx, tx, p.ID, model.PaymentStatusFailed, nil, nil)
			if err != nil {
				return err
			}
			if !updated {
				stored, err := u.payments.FindByID(ctx, tx, p.ID)
				out = stored
				return err
			}
			p.Status = model.PaymentStatusFailed
			p.UpdatedAt = time.Now()
			out = p
			transitioned = true
			return nil
		}

		now := time.Now()
		paidAt := now
		if res.PaidAt != nil {
			paidAt = *res.PaidAt
		}
		updated, err := u.payments.UpdateStatusIfPending(ctx, tx, p.ID, model.PaymentStatusSuccess, &res.TransactionID, &paidAt)
		if err != nil {
			return err
		}
		if !updated {
			// lost the race; the winner already ran the activation
			stored, err := u.payments.FindByID(ctx, tx, p.ID)
			out = stored
			return err
		}

		plan, err := u.plans.FindByID(ctx, tx, p.PlanID)
		if err != nil {
			return err
		}
		if _, err := u.subs.DeactivateActiveByUser(ctx, tx, p.UserID); err != nil {
			return err
		}
		sub, err := model.NewSubscription(uuid.NewString(), p.UserID, plan, p.ID, now)
		if err != nil {
			return err
		}
		if err := u.subs.Save(ctx, tx, sub); err != nil {
			return err
		}

		p.Status = model.PaymentStatusSuccess
		p.ExternalRef = &res.TransactionID
		p.PaidAt = &paidAt
		p.UpdatedAt = now
		out = p
		transitioned = true
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if !transitioned {
		// another caller finalized the payment first; report stored state
		return out, nil
	}

	metrics.IncPayment(string(out.Status))
	if out.Status == model.PaymentStatusSuccess {
		metrics.AddPaymentRevenue(out.Currency, out.AmountMinor)
		metrics.IncSubscriptionsActivated()
		u.log.Info().Str("reference", reference).Str("external_ref", derefStr(out.ExternalRef)).Msg("payment verified, subscription activated")
	} else {
		u.log.Warn().Str("reference", reference).Str("gateway_status", res.GatewayStatus).Str("gateway_msg", res.Message).Msg("payment verification failed")
	}
	return out, nil
}

func (u *paymentUC) History(ctx context.Context, userID string) ([]*model.Payment, error) {
	return u.payments.ListByUser(ctx, repository.NoTX, userID)
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
