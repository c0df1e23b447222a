package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	"github.com/pkordes/airport-taxi/backend/internal/config"
	"github.com/pkordes/airport-taxi/backend/internal/events"
	"github.com/pkordes/airport-taxi/backend/internal/repo"
	"github.com/pkordes/airport-taxi/backend/internal/service"
	"github.com/pkordes/airport-taxi/backend/migrations"
)

// sessionBackend is the opened session store plus the payment lock that
// goes with it.
type sessionBackend struct {
	store repo.SessionStore
	lock  repo.PaymentLock
	close func()
}

// openSessions connects the configured session backend. For Postgres it also
// applies pending migrations and starts the expired-session sweeper on ctx.
func openSessions(ctx context.Context, cfg config.Config, logger *slog.Logger) (sessionBackend, error) {
	switch cfg.SessionBackend {
	case config.BackendPostgres:
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			return sessionBackend{}, err
		}

		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return sessionBackend{}, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return sessionBackend{}, fmt.Errorf("connect to database: %w", err)
		}

		store := repo.NewPgSessionStore(pool, cfg.SessionTTL)
		go service.RunExpirySweeper(ctx, store, cfg.SweepInterval, logger)

		// The in-process lock is only safe with a single API instance.
		return sessionBackend{store: store, lock: repo.NewMemoryPaymentLock(), close: pool.Close}, nil

	default:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return sessionBackend{}, fmt.Errorf("connect to redis: %w", err)
		}
		return sessionBackend{
			store: repo.NewRedisSessionStore(rdb, cfg.SessionTTL),
			lock:  repo.NewRedisPaymentLock(rdb),
			close: func() { _ = rdb.Close() },
		}, nil
	}
}

// migrate applies every pending goose migration. goose needs database/sql,
// so this opens a short-lived *sql.DB through the pgx stdlib driver.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// openPublisher dials the broker when AMQP_URL is set. Without it booking
// events are dropped.
func openPublisher(cfg config.Config) (events.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		slog.Info("AMQP_URL not set; booking events disabled")
		return events.Noop{}, func() {}, nil
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	pub, err := events.NewAMQPPublisher(ch)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	return pub, func() {
		_ = pub.Close()
		_ = conn.Close()
	}, nil
}
