package repository

import (
	"context"
	"time"

	"finaily/internal/models"
)

// ListArticlesParams filters the per-ticker article listing. Since, when set,
// keeps only rows created after that instant (used for article reuse within the
// fetch TTL).
type ListArticlesParams struct {
	TickerID uint64
	Limit    int
	Since    *time.Time
}

// Repository is the persistence boundary of the digest pipeline. Lookups
// return (nil, nil) when the row does not exist.
type Repository interface {
	// Tickers: immutable reference data.
	GetTickerBySymbol(ctx context.Context, symbol string) (*models.Ticker, error)
	InsertTicker(ctx context.Context, item *models.Ticker) error

	// Articles: insert-only, URL-unique. UpsertArticles silently skips rows
	// whose URL already exists.
	UpsertArticles(ctx context.Context, items []models.Article) error
	ListArticles(ctx context.Context, params ListArticlesParams) ([]models.Article, error)
	ListArticlesByIDs(ctx context.Context, ids []uint64) ([]models.Article, error)

	// Digests: append-only history, newest-fresh-wins resolved by the caller.
	InsertDigest(ctx context.Context, item *models.Digest) error
	GetLatestDigestByTickerID(ctx context.Context, tickerID uint64) (*models.Digest, error)
	DeleteDigestsBefore(ctx context.Context, before time.Time) (int64, error)

	// Guest quota: single-statement atomic upsert-increment returning the
	// post-increment count for (origin, day).
	IncrementGuestQuota(ctx context.Context, origin, day string) (int, error)
	DeleteGuestQuotasBefore(ctx context.Context, day string) (int64, error)

	// Users: profile rows for authenticated callers.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	InsertUser(ctx context.Context, item *models.User) error
	UpdateUser(ctx context.Context, id string, updates map[string]any) (*models.User, error)
}
