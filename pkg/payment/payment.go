package payment

import (
	"context"
	"time"
)

// HoldRequest describes an authorization hold: the amount is reserved on the
// card but not captured until the settlement batch decides to.
type HoldRequest struct {
	AmountInYen int64
	CardToken   string
	TenantID    string
	// ExpiryDays is how long the hold stays capturable.
	ExpiryDays int
	// ThreeDSecure must be true for consultation requests.
	ThreeDSecure bool
	Description  string
}

// Charge is the gateway's view of a hold or captured charge.
type Charge struct {
	ID          string
	AmountInYen int64
	Captured    bool
	Refunded    bool
	ExpiresAt   time.Time
}

// Provider is the capability set the settlement workflow consumes. Errors are
// not retried automatically; they surface to the caller as-is.
type Provider interface {
	CreateHold(ctx context.Context, req HoldRequest) (*Charge, error)
	Capture(ctx context.Context, chargeID string) (*Charge, error)
	Refund(ctx context.Context, chargeID string) (*Charge, error)
}
