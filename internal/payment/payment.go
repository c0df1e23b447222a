// Package payment simulates the card charge at the end of the booking flow.
// No gateway is contacted: a charge waits for a fixed delay and then
// resolves to the outcome chosen by the processor's Decide hook.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

// Outcome is the result a simulated charge resolves to.
type Outcome int

const (
	Approved Outcome = iota
	Declined
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Approved:
		return "approved"
	case Declined:
		return "declined"
	case TimedOut:
		return "timeout"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Request is one charge attempt.
type Request struct {
	SessionID uuid.UUID
	Amount    string
	Card      domain.Card
}

// Receipt describes an approved charge.
type Receipt struct {
	TransactionID uuid.UUID
	Amount        string
	CardLastFour  string
	ProcessedAt   time.Time
}

// DecideFunc picks the outcome of a charge. Tests use it to force a decline
// or a timeout deterministically.
type DecideFunc func(Request) Outcome

// AlwaysApprove is the default DecideFunc.
func AlwaysApprove(Request) Outcome { return Approved }

// Processor performs simulated charges.
type Processor struct {
	delay  time.Duration
	decide DecideFunc
	now    func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithDecide replaces the outcome hook.
func WithDecide(fn DecideFunc) Option {
	return func(p *Processor) { p.decide = fn }
}

// WithClock replaces the clock used to stamp receipts.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// NewProcessor constructs a Processor that waits delay before resolving.
func NewProcessor(delay time.Duration, opts ...Option) *Processor {
	p := &Processor{delay: delay, decide: AlwaysApprove, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Charge waits for the processing delay and resolves the charge.
// Cancelling ctx aborts the wait; a deadline maps to domain.ErrPaymentTimeout.
func (p *Processor) Charge(ctx context.Context, req Request) (Receipt, error) {
	if err := p.wait(ctx); err != nil {
		return Receipt{}, fmt.Errorf("payment.Processor.Charge: %w", err)
	}

	switch p.decide(req) {
	case Approved:
		return Receipt{
			TransactionID: uuid.New(),
			Amount:        req.Amount,
			CardLastFour:  req.Card.LastFour(),
			ProcessedAt:   p.now().UTC(),
		}, nil
	case Declined:
		return Receipt{}, fmt.Errorf("payment.Processor.Charge: %w", domain.ErrPaymentDeclined)
	default:
		return Receipt{}, fmt.Errorf("payment.Processor.Charge: %w", domain.ErrPaymentTimeout)
	}
}

func (p *Processor) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return mapContextErr(ctx.Err())
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return mapContextErr(ctx.Err())
	}
}

func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrPaymentTimeout
	}
	return err
}

// DeclineCardsEndingIn returns a DecideFunc that declines any card whose
// digits end with one of the given suffixes and approves the rest.
// It lets the demo deployment exercise the decline path.
func DeclineCardsEndingIn(suffixes ...string) DecideFunc {
	return func(r Request) Outcome {
		digits := strings.ReplaceAll(r.Card.Number, " ", "")
		for _, s := range suffixes {
			if s != "" && strings.HasSuffix(digits, s) {
				return Declined
			}
		}
		return Approved
	}
}
