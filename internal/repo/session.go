// Package repo contains the session storage for the booking API.
// The booking session is a single JSON blob per id; two backends exist
// (Redis and Postgres) behind the same SessionStore interface.
// No business logic lives here, only storage and (de)serialization.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

// SessionStore persists booking sessions.
// The service layer depends on this interface, not a concrete backend,
// which allows it to be unit-tested with a mock.
//
// Writes are last-write-wins: two clients driving the same session id
// concurrently overwrite each other without detection.
type SessionStore interface {
	// Get returns the session with the given id.
	// Returns domain.ErrNotFound if it does not exist or has expired.
	Get(ctx context.Context, id uuid.UUID) (domain.BookingSession, error)

	// Put creates or overwrites the session and refreshes its expiry.
	Put(ctx context.Context, s domain.BookingSession) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentLock keeps a second charge for the same session from starting while
// the first is still running.
type PaymentLock interface {
	// Acquire takes the lock for id. It reports false if another holder has it.
	// The lock is released automatically after ttl in case the holder dies.
	Acquire(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error)

	// Release drops the lock for id. Releasing a free lock is not an error.
	Release(ctx context.Context, id uuid.UUID) error

	// MarkPaid records that id has been charged. The mark outlives Release
	// and expires after ttl.
	MarkPaid(ctx context.Context, id uuid.UUID, ttl time.Duration) error

	// Paid reports whether id carries an unexpired paid mark.
	Paid(ctx context.Context, id uuid.UUID) (bool, error)
}

func encodeSession(s domain.BookingSession) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return b, nil
}

func decodeSession(b []byte) (domain.BookingSession, error) {
	var s domain.BookingSession
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.BookingSession{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}
