package service

import (
	"context"
	"time"

	"finaily/internal/models"
	"finaily/internal/repository"
)

// DigestCache answers "is there a fresh digest for this ticker". Writes are
// insert-only: staleness is resolved purely by "most recent wins" at read
// time, and older rows are ignored, not deleted.
//
// The cache deliberately provides no mutual exclusion across callers:
// concurrent misses for one ticker may each run a fetch+summarize cycle and
// each insert a row. A per-ticker in-flight registry would collapse those into
// one backend call; see DESIGN.md for that upgrade path.
type DigestCache struct {
	Repo repository.Repository
	TTL  time.Duration

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// GetFresh returns the most recent digest for the ticker iff it is younger
// than the TTL, otherwise nil.
func (c *DigestCache) GetFresh(ctx context.Context, tickerID uint64) (*models.Digest, error) {
	digest, err := c.Repo.GetLatestDigestByTickerID(ctx, tickerID)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, nil
	}
	if c.now().Sub(digest.CreatedAt) >= c.ttl() {
		return nil, nil
	}
	return digest, nil
}

// Put inserts a new digest row. It never overwrites.
func (c *DigestCache) Put(ctx context.Context, digest *models.Digest) error {
	return c.Repo.InsertDigest(ctx, digest)
}

func (c *DigestCache) ttl() time.Duration {
	if c.TTL <= 0 {
		return 24 * time.Hour
	}
	return c.TTL
}

func (c *DigestCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
