package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryPaymentLock is an in-process PaymentLock for single-instance
// deployments (the Postgres backend) and for tests.
type memoryPaymentLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]time.Time
	paid map[uuid.UUID]time.Time
	now  func() time.Time
}

// NewMemoryPaymentLock constructs an in-process PaymentLock.
func NewMemoryPaymentLock() PaymentLock {
	return &memoryPaymentLock{
		held: make(map[uuid.UUID]time.Time),
		paid: make(map[uuid.UUID]time.Time),
		now:  time.Now,
	}
}

func (l *memoryPaymentLock) Acquire(_ context.Context, id uuid.UUID, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.held[id]; ok && now.Before(until) {
		return false, nil
	}
	l.held[id] = now.Add(ttl)
	return true, nil
}

func (l *memoryPaymentLock) Release(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, id)
	return nil
}

func (l *memoryPaymentLock) MarkPaid(_ context.Context, id uuid.UUID, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.paid[id] = l.now().Add(ttl)
	return nil
}

func (l *memoryPaymentLock) Paid(_ context.Context, id uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.paid[id]
	if ok && !l.now().Before(until) {
		delete(l.paid, id)
		return false, nil
	}
	return ok, nil
}
