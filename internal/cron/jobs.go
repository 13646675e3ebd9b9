package cronrunner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"finaily/internal/quota"
	"finaily/internal/repository"
)

// Housekeeper prunes append-only tables. Digests past the retention window are
// history nobody reads; quota rows older than two days can never be counted
// again.
type Housekeeper struct {
	Repo            repository.Repository
	Logger          *zap.Logger
	DigestRetention time.Duration
	QuotaLocation   *time.Location
}

func (h *Housekeeper) CleanDigests(ctx context.Context) {
	retention := h.DigestRetention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := h.Repo.DeleteDigestsBefore(ctx, cutoff)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("digest cleanup failed", zap.Error(err))
		}
		return
	}
	if h.Logger != nil && deleted > 0 {
		h.Logger.Info("digests pruned", zap.Int64("deleted", deleted))
	}
}

func (h *Housekeeper) CleanQuotas(ctx context.Context) {
	day := quota.DayKey(time.Now().Add(-48*time.Hour), h.QuotaLocation)
	deleted, err := h.Repo.DeleteGuestQuotasBefore(ctx, day)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("quota cleanup failed", zap.Error(err))
		}
		return
	}
	if h.Logger != nil && deleted > 0 {
		h.Logger.Info("guest quotas pruned", zap.Int64("deleted", deleted))
	}
}
