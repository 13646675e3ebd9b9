package news

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"finaily/internal/models"
	"finaily/internal/repository"
)

// Fetcher acquires recent articles for a ticker: stored rows are reused inside
// the article TTL, otherwise the primary source is tried and the secondary one
// on failure or a short result. Newly seen URLs are persisted; URL collisions
// silently resolve to the existing row. There is exactly one fallback hop and
// no retry loop, which keeps request latency bounded.
type Fetcher struct {
	Primary   Source
	Secondary Source
	Repo      repository.Repository
	Logger    *zap.Logger

	MinArticles     int
	ArticleTTL      time.Duration
	MaxContentChars int
}

// Fetch returns up to limit stored articles for the ticker, newest first,
// undated rows after all dated ones. Returns ErrSourceUnavailable when no
// source produced anything and nothing usable is stored.
func (f *Fetcher) Fetch(ctx context.Context, tickerID uint64, symbol string, limit int) ([]models.Article, error) {
	stored, err := f.listStored(ctx, tickerID, limit, f.ArticleTTL)
	if err != nil {
		return nil, err
	}
	if len(stored) >= limit {
		return stored, nil
	}

	raw, sourceErr := f.fetchExternal(ctx, symbol, limit)
	if sourceErr != nil {
		// Stored rows older than the TTL are still better than failing the
		// request outright.
		fallback, err := f.listStored(ctx, tickerID, limit, 0)
		if err != nil {
			return nil, err
		}
		if len(fallback) > 0 {
			return fallback, nil
		}
		return nil, sourceErr
	}

	if err := f.persist(ctx, tickerID, raw); err != nil {
		return nil, fmt.Errorf("persist articles: %w", err)
	}

	// Reload through the store so the result carries row IDs and reflects the
	// URL-dedup outcome.
	result, err := f.listStored(ctx, tickerID, limit, 0)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrSourceUnavailable
	}
	return result, nil
}

func (f *Fetcher) fetchExternal(ctx context.Context, symbol string, limit int) ([]RawArticle, error) {
	minArticles := f.MinArticles
	if minArticles <= 0 {
		minArticles = 1
	}

	articles, err := f.Primary.Fetch(ctx, symbol, limit)
	if err != nil || len(articles) < minArticles {
		if f.Logger != nil {
			f.Logger.Warn("primary news source failed, trying fallback",
				zap.String("symbol", symbol),
				zap.String("primary", f.Primary.Name()),
				zap.Int("got", len(articles)),
				zap.Error(err),
			)
		}
		articles, err = f.Secondary.Fetch(ctx, symbol, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, f.Secondary.Name(), err)
		}
	}
	if len(articles) == 0 {
		return nil, ErrSourceUnavailable
	}

	sortNewestFirst(articles)
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (f *Fetcher) persist(ctx context.Context, tickerID uint64, raw []RawArticle) error {
	rows := make([]models.Article, 0, len(raw))
	for _, a := range raw {
		if a.URL == "" {
			continue
		}
		rows = append(rows, models.Article{
			TickerID:    tickerID,
			Title:       a.Title,
			Source:      a.Source,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			RawContent:  trim(a.RawContent, f.MaxContentChars),
		})
	}
	return f.Repo.UpsertArticles(ctx, rows)
}

func (f *Fetcher) listStored(ctx context.Context, tickerID uint64, limit int, ttl time.Duration) ([]models.Article, error) {
	params := repository.ListArticlesParams{TickerID: tickerID, Limit: limit}
	if ttl > 0 {
		since := time.Now().UTC().Add(-ttl)
		params.Since = &since
	}
	return f.Repo.ListArticles(ctx, params)
}

// sortNewestFirst orders by published time descending; articles without a
// published time keep their relative source order after all dated ones.
func sortNewestFirst(articles []RawArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		pi, pj := articles[i].PublishedAt, articles[j].PublishedAt
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})
}

func trim(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
