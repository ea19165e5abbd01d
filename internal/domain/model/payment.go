package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // redirected to gateway; awaiting verification
	PaymentStatusSuccess PaymentStatus = "success" // verified OK at provider
	PaymentStatusFailed  PaymentStatus = "failed"  // initialization or verification failed
)

// IsTerminal reports whether no further status transition is permitted.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// Payment records one external payment attempt. Rows are append-only: a
// payment is created pending, moves to exactly one terminal status, and is
// never deleted (audit trail). Reference is client-generated, unique and
// immutable for the lifetime of the attempt; it is the idempotency key
// against the gateway and the lookup key on callback.
type Payment struct {
	ID          string // UUID
	UserID      string // UUID
	PlanID      string // UUID
	AmountMinor int64  // minor units (e.g. kobo), to avoid float errors
	Currency    string
	Reference   string  // our reference sent to the gateway
	ExternalRef *string // gateway transaction id, set on verified success
	Status      PaymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time // set when status becomes success
}
