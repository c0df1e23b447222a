package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

const (
	sessionKeyPrefix = "booking:session:%s"
	paymentKeyPrefix = "booking:session:%s:payment"
	paidKeyPrefix    = "booking:session:%s:paid"
)

// redisSessionStore keeps each session as a JSON string with a TTL, so
// abandoned sessions disappear on their own.
type redisSessionStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisSessionStore constructs a SessionStore backed by Redis.
// Every Put resets the key's expiry to ttl.
func NewRedisSessionStore(rdb redis.Cmdable, ttl time.Duration) SessionStore {
	return &redisSessionStore{rdb: rdb, ttl: ttl}
}

func (r *redisSessionStore) Get(ctx context.Context, id uuid.UUID) (domain.BookingSession, error) {
	b, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.BookingSession{}, fmt.Errorf("repo.RedisSessionStore.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("repo.RedisSessionStore.Get: %w", err)
	}
	s, err := decodeSession(b)
	if err != nil {
		return domain.BookingSession{}, fmt.Errorf("repo.RedisSessionStore.Get: %w", err)
	}
	return s, nil
}

func (r *redisSessionStore) Put(ctx context.Context, s domain.BookingSession) error {
	b, err := encodeSession(s)
	if err != nil {
		return fmt.Errorf("repo.RedisSessionStore.Put: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(s.ID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("repo.RedisSessionStore.Put: %w", err)
	}
	return nil
}

func (r *redisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("repo.RedisSessionStore.Delete: %w", err)
	}
	return nil
}

// redisPaymentLock uses SET NX with an expiry, so the lock works across
// several API instances sharing one Redis.
type redisPaymentLock struct {
	rdb redis.Cmdable
}

// NewRedisPaymentLock constructs a PaymentLock backed by Redis.
func NewRedisPaymentLock(rdb redis.Cmdable) PaymentLock {
	return &redisPaymentLock{rdb: rdb}
}

func (l *redisPaymentLock) Acquire(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, paymentKey(id), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("repo.RedisPaymentLock.Acquire: %w", err)
	}
	return ok, nil
}

func (l *redisPaymentLock) Release(ctx context.Context, id uuid.UUID) error {
	if err := l.rdb.Del(ctx, paymentKey(id)).Err(); err != nil {
		return fmt.Errorf("repo.RedisPaymentLock.Release: %w", err)
	}
	return nil
}

func (l *redisPaymentLock) MarkPaid(ctx context.Context, id uuid.UUID, ttl time.Duration) error {
	if err := l.rdb.Set(ctx, paidKey(id), time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("repo.RedisPaymentLock.MarkPaid: %w", err)
	}
	return nil
}

func (l *redisPaymentLock) Paid(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := l.rdb.Exists(ctx, paidKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("repo.RedisPaymentLock.Paid: %w", err)
	}
	return n > 0, nil
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf(sessionKeyPrefix, id)
}

func paymentKey(id uuid.UUID) string {
	return fmt.Sprintf(paymentKeyPrefix, id)
}

func paidKey(id uuid.UUID) string {
	return fmt.Sprintf(paidKeyPrefix, id)
}
