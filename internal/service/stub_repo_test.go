package service

import (
	"context"
	"time"

	"finaily/internal/models"
	"finaily/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	tickers  map[string]*models.Ticker
	articles []models.Article
	digests  []models.Digest
	quotas   map[string]int
	users    map[string]*models.User

	nextTickerID  uint64
	nextArticleID uint64
	nextDigestID  uint64

	insertDigestCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		tickers: map[string]*models.Ticker{},
		quotas:  map[string]int{},
		users:   map[string]*models.User{},
	}
}

func (s *stubRepo) GetTickerBySymbol(ctx context.Context, symbol string) (*models.Ticker, error) {
	t, ok := s.tickers[symbol]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (s *stubRepo) InsertTicker(ctx context.Context, item *models.Ticker) error {
	if _, ok := s.tickers[item.Symbol]; ok {
		item.ID = 0
		return nil
	}
	s.nextTickerID++
	item.ID = s.nextTickerID
	clone := *item
	s.tickers[item.Symbol] = &clone
	return nil
}

func (s *stubRepo) UpsertArticles(ctx context.Context, items []models.Article) error {
	for _, item := range items {
		dup := false
		for _, have := range s.articles {
			if have.URL == item.URL {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		s.nextArticleID++
		item.ID = s.nextArticleID
		item.CreatedAt = time.Now().UTC()
		s.articles = append(s.articles, item)
	}
	return nil
}

func (s *stubRepo) ListArticles(ctx context.Context, params repository.ListArticlesParams) ([]models.Article, error) {
	var out []models.Article
	for _, a := range s.articles {
		if a.TickerID != params.TickerID {
			continue
		}
		if params.Since != nil && !a.CreatedAt.After(*params.Since) {
			continue
		}
		out = append(out, a)
		if params.Limit > 0 && len(out) >= params.Limit {
			break
		}
	}
	return out, nil
}

func (s *stubRepo) ListArticlesByIDs(ctx context.Context, ids []uint64) ([]models.Article, error) {
	want := map[uint64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Article
	for _, a := range s.articles {
		if want[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertDigest(ctx context.Context, item *models.Digest) error {
	s.insertDigestCalls++
	s.nextDigestID++
	item.ID = s.nextDigestID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.digests = append(s.digests, *item)
	return nil
}

func (s *stubRepo) GetLatestDigestByTickerID(ctx context.Context, tickerID uint64) (*models.Digest, error) {
	var latest *models.Digest
	for i := range s.digests {
		d := &s.digests[i]
		if d.TickerID != tickerID {
			continue
		}
		if latest == nil || d.CreatedAt.After(latest.CreatedAt) {
			latest = d
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (s *stubRepo) DeleteDigestsBefore(ctx context.Context, before time.Time) (int64, error) {
	var kept []models.Digest
	var deleted int64
	for _, d := range s.digests {
		if d.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	s.digests = kept
	return deleted, nil
}

func (s *stubRepo) IncrementGuestQuota(ctx context.Context, origin, day string) (int, error) {
	key := origin + ":" + day
	s.quotas[key]++
	return s.quotas[key], nil
}

func (s *stubRepo) DeleteGuestQuotasBefore(ctx context.Context, day string) (int64, error) {
	return 0, nil
}

func (s *stubRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *stubRepo) InsertUser(ctx context.Context, item *models.User) error {
	clone := *item
	s.users[item.ID] = &clone
	return nil
}

func (s *stubRepo) UpdateUser(ctx context.Context, id string, updates map[string]any) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	if v, ok := updates["display_name"].(string); ok {
		u.DisplayName = &v
	}
	if v, ok := updates["preferred_language"].(string); ok {
		u.PreferredLanguage = v
	}
	clone := *u
	return &clone, nil
}
