package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubProvider is an in-memory gateway for development and tests. Holds are
// tracked so Capture/Refund on an unknown charge id fails like the real thing.
type StubProvider struct {
	mu      sync.Mutex
	charges map[string]*Charge
	// FailCapture forces every Capture call to fail (test hook).
	FailCapture bool
}

func NewStubProvider() *StubProvider {
	return &StubProvider{charges: make(map[string]*Charge)}
}

func (s *StubProvider) CreateHold(ctx context.Context, req HoldRequest) (*Charge, error) {
	if req.CardToken == "" {
		return nil, fmt.Errorf("stub: card token required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Charge{
		ID:          "ch_stub_" + uuid.New().String(),
		AmountInYen: req.AmountInYen,
		ExpiresAt:   time.Now().AddDate(0, 0, req.ExpiryDays),
	}
	s.charges[c.ID] = c
	return cloneCharge(c), nil
}

func (s *StubProvider) Capture(ctx context.Context, chargeID string) (*Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCapture {
		return nil, fmt.Errorf("stub: capture forced to fail")
	}
	c, ok := s.charges[chargeID]
	if !ok {
		return nil, fmt.Errorf("stub: no such charge %s", chargeID)
	}
	if c.Refunded {
		return nil, fmt.Errorf("stub: charge %s already refunded", chargeID)
	}
	c.Captured = true
	return cloneCharge(c), nil
}

func (s *StubProvider) Refund(ctx context.Context, chargeID string) (*Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charges[chargeID]
	if !ok {
		return nil, fmt.Errorf("stub: no such charge %s", chargeID)
	}
	c.Refunded = true
	return cloneCharge(c), nil
}

func cloneCharge(c *Charge) *Charge {
	cp := *c
	return &cp
}
