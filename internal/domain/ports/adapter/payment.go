package adapter

import (
	"context"
	"time"
)

// InitializeRequest carries everything the gateway needs to open a
// transaction. Amount is already converted to minor units by the caller.
type InitializeRequest struct {
	Email       string
	AmountMinor int64
	Reference   string
	PlanName    string
	CallbackURL string
	Metadata    map[string]any
}

// InitializeResult is the normalized outcome of an initialize call.
// OK=false covers gateway declines, non-2xx responses, deserialization
// faults, network failures and timeouts alike; Message carries the detail.
type InitializeResult struct {
	OK               bool
	AuthorizationURL string
	Message          string
}

// VerifyResult is the normalized outcome of a verify call. OK only means
// the gateway answered; whether the money moved is GatewayStatus.
type VerifyResult struct {
	OK            bool
	GatewayStatus string // gateway's terminal status string, "success" or anything else
	TransactionID string // gateway-assigned id
	PaidAt        *time.Time
	Message       string
}

// Succeeded reports a gateway-confirmed successful charge.
func (r VerifyResult) Succeeded() bool {
	return r.OK && r.GatewayStatus == "success"
}

// PaymentGateway is the hex port for the external payment processor.
//
// HARD CONTRACT: implementations never let a transport-level fault escape.
// Every failure mode is folded into the result value so the activation
// flow only ever inspects OK. Exactly one outbound HTTP call per
// invocation; no retries, no idempotency protocol beyond the reference.
type PaymentGateway interface {
	Name() string
	Initialize(ctx context.Context, req InitializeRequest) InitializeResult
	Verify(ctx context.Context, reference string) VerifyResult
}
