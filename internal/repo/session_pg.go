package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgSessionStore is the Postgres SessionStore. Expired rows are invisible to
// Get and are removed by PurgeExpired.
type PgSessionStore struct {
	db  db
	ttl time.Duration
	now func() time.Time
}

// NewPgSessionStore constructs a session store over the booking_sessions table.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPgSessionStore(db db, ttl time.Duration) *PgSessionStore {
	return &PgSessionStore{db: db, ttl: ttl, now: time.Now}
}

// Get returns a live session by id.
func (r *PgSessionStore) Get(ctx context.Context, id uuid.UUID) (domain.BookingSession, error) {
	const q = `
		SELECT data
		FROM booking_sessions
		WHERE id = @id AND expires_at > @now`

	var raw []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "now": r.now().UTC()}).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BookingSession{}, fmt.Errorf("repo.PgSessionStore.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("repo.PgSessionStore.Get: %w", err)
	}
	s, err := decodeSession(raw)
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("repo.PgSessionStore.Get: %w", err)
	}
	return s, nil
}

// Put upserts the session blob and pushes its expiry forward.
func (r *PgSessionStore) Put(ctx context.Context, s domain.BookingSession) error {
	const q = `
		INSERT INTO booking_sessions (id, data, expires_at)
		VALUES (@id, @data, @expires_at)
		ON CONFLICT (id) DO UPDATE
		SET data       = EXCLUDED.data,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = now()`

	b, err := encodeSession(s)
	if err != nil {
		return fmt.Errorf("repo.PgSessionStore.Put: %w", err)
	}
	args := pgx.NamedArgs{
		"id":         s.ID,
		"data":       string(b),
		"expires_at": r.now().UTC().Add(r.ttl),
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.PgSessionStore.Put: %w", err)
	}
	return nil
}

// Delete removes the session row if present.
func (r *PgSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM booking_sessions WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.PgSessionStore.Delete: %w", err)
	}
	return nil
}

// PurgeExpired deletes every expired session and returns how many went.
func (r *PgSessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM booking_sessions WHERE expires_at <= @now`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"now": r.now().UTC()})
	if err != nil {
		return 0, fmt.Errorf("repo.PgSessionStore.PurgeExpired: %w", err)
	}
	return tag.RowsAffected(), nil
}
