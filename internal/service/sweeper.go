package service

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredSessionPurger deletes sessions whose TTL has passed.
// *repo.PgSessionStore satisfies it; Redis expires keys on its own.
type ExpiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunExpirySweeper purges expired sessions every interval until ctx is done.
// Errors are logged and the next tick tries again.
func RunExpirySweeper(ctx context.Context, p ExpiredSessionPurger, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.WarnContext(ctx, "purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.InfoContext(ctx, "purged expired sessions", "count", n)
			}
		}
	}
}
