package quota

import (
	"context"
	"fmt"
	"time"

	"finaily/internal/repository"
)

// PostgresGate counts requests through the repository's single-statement
// upsert-increment, so it stays correct when the service runs as multiple
// instances sharing one database.
type PostgresGate struct {
	Repo  repository.Repository
	Limit int
	Loc   *time.Location
}

func (g *PostgresGate) Allow(ctx context.Context, origin string) error {
	count, err := g.Repo.IncrementGuestQuota(ctx, origin, DayKey(time.Now(), g.Loc))
	if err != nil {
		return fmt.Errorf("quota increment: %w", err)
	}
	if count > g.Limit {
		return ErrDailyLimit
	}
	return nil
}
