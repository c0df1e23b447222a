package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/airport-taxi/backend/internal/service"
)

type mockPurger struct {
	purge func(ctx context.Context) (int64, error)
}

func (m *mockPurger) PurgeExpired(ctx context.Context) (int64, error) {
	return m.purge(ctx)
}

var _ service.ExpiredSessionPurger = (*mockPurger)(nil)

func TestRunExpirySweeper_TicksUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	p := &mockPurger{purge: func(context.Context) (int64, error) {
		if calls.Add(1)%2 == 0 {
			return 0, errors.New("transient")
		}
		return 3, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		service.RunExpirySweeper(ctx, p, time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond,
		"sweeper keeps running after an error")
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
