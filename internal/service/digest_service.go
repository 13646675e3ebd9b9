package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finaily/internal/models"
	"finaily/internal/quota"
	"finaily/internal/repository"
	"finaily/internal/summarizer"
)

// ArticleFetcher acquires and persists recent articles for a ticker.
type ArticleFetcher interface {
	Fetch(ctx context.Context, tickerID uint64, symbol string, limit int) ([]models.Article, error)
}

// ArticleSummarizer turns an article batch into one digest result with a
// single generative backend call.
type ArticleSummarizer interface {
	Summarize(ctx context.Context, symbol, companyName string, articles []models.Article) (*summarizer.Result, error)
}

// GetDigestParams describes one digest request. UserID is empty for guests;
// guests are quota-gated by Origin.
type GetDigestParams struct {
	Symbol string
	Lang   string
	Limit  int
	UserID string
	Origin string
}

// DigestView is the response shape, identical for cache hits and misses.
type DigestView struct {
	Symbol      string        `json:"symbol"`
	CompanyName string        `json:"company_name"`
	LastUpdated time.Time     `json:"last_updated"`
	Digest      DigestBody    `json:"digest"`
	Articles    []ArticleView `json:"articles"`
}

type DigestBody struct {
	Summary         []models.SummaryPoint `json:"summary"`
	Sentiment       SentimentView         `json:"sentiment"`
	BasedOnArticles int                   `json:"based_on_articles"`
}

type SentimentView struct {
	Score decimal.Decimal `json:"score"`
	Label string          `json:"label"`
}

type ArticleView struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at"`
}

// DigestService runs the end-to-end request flow:
// quota → cache lookup → [hit: respond] / [miss: fetch → summarize → store → respond].
// Every failure kind is terminal for the request; nothing falls back to a
// different mechanism.
type DigestService struct {
	Repo       repository.Repository
	Tickers    *TickerService
	Fetcher    ArticleFetcher
	Summarizer ArticleSummarizer
	Cache      *DigestCache
	Quota      quota.Gate
	Logger     *zap.Logger

	Languages   []string
	MaxArticles int
}

func (s *DigestService) GetDigest(ctx context.Context, params GetDigestParams) (*DigestView, error) {
	if params.UserID == "" && s.Quota != nil {
		if err := s.Quota.Allow(ctx, params.Origin); err != nil {
			return nil, err
		}
	}

	lang, err := s.normalizeLang(params.Lang)
	if err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > s.maxArticles() {
		limit = s.maxArticles()
	}

	ticker, err := s.Tickers.Resolve(ctx, params.Symbol)
	if err != nil {
		return nil, err
	}

	cached, err := s.Cache.GetFresh(ctx, ticker.ID)
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	if cached != nil {
		return s.viewFromCached(ctx, ticker, cached, lang)
	}

	articles, err := s.Fetcher.Fetch(ctx, ticker.ID, ticker.Symbol, limit)
	if err != nil {
		return nil, err
	}

	result, err := s.Summarizer.Summarize(ctx, ticker.Symbol, ticker.Name, articles)
	if err != nil {
		return nil, err
	}

	digest, err := digestRow(ticker.ID, result)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Put(ctx, digest); err != nil {
		// The digest is already computed; serve it even if caching failed.
		if s.Logger != nil {
			s.Logger.Warn("digest cache write failed",
				zap.String("symbol", ticker.Symbol),
				zap.Error(err),
			)
		}
	}

	if len(articles) > result.ArticleCount {
		articles = articles[:result.ArticleCount]
	}
	return buildView(ticker, result.Summaries[lang], result.SentimentScore, result.SentimentLabel, result.ArticleCount, articles), nil
}

func (s *DigestService) viewFromCached(ctx context.Context, ticker *models.Ticker, digest *models.Digest, lang string) (*DigestView, error) {
	var summaries map[string][]models.SummaryPoint
	if err := json.Unmarshal(digest.Summaries, &summaries); err != nil {
		return nil, fmt.Errorf("cached digest decode: %w", err)
	}
	var ids []uint64
	if err := json.Unmarshal(digest.ArticleIDs, &ids); err != nil {
		return nil, fmt.Errorf("cached digest decode: %w", err)
	}

	articles, err := s.articlesInOrder(ctx, ids)
	if err != nil {
		return nil, err
	}

	bullets := summaries[lang]
	if len(bullets) == 0 {
		for _, fallback := range s.languages() {
			if len(summaries[fallback]) > 0 {
				bullets = summaries[fallback]
				break
			}
		}
	}

	return buildView(ticker, bullets, digest.SentimentScore, digest.SentimentLabel, digest.ArticleCount, articles), nil
}

func (s *DigestService) articlesInOrder(ctx context.Context, ids []uint64) ([]models.Article, error) {
	items, err := s.Repo.ListArticlesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("article load: %w", err)
	}
	byID := make(map[uint64]models.Article, len(items))
	for _, a := range items {
		byID[a.ID] = a
	}
	ordered := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

func (s *DigestService) normalizeLang(lang string) (string, error) {
	if lang == "" {
		return s.languages()[0], nil
	}
	for _, supported := range s.languages() {
		if lang == supported {
			return lang, nil
		}
	}
	return "", ErrUnsupportedLanguage
}

func (s *DigestService) languages() []string {
	if len(s.Languages) == 0 {
		return []string{"ko", "en"}
	}
	return s.Languages
}

func (s *DigestService) maxArticles() int {
	if s.MaxArticles <= 0 {
		return 10
	}
	return s.MaxArticles
}

func digestRow(tickerID uint64, result *summarizer.Result) (*models.Digest, error) {
	summaries, err := json.Marshal(result.Summaries)
	if err != nil {
		return nil, fmt.Errorf("digest encode: %w", err)
	}
	ids, err := json.Marshal(result.ArticleIDs)
	if err != nil {
		return nil, fmt.Errorf("digest encode: %w", err)
	}
	return &models.Digest{
		TickerID:       tickerID,
		ArticleIDs:     ids,
		Summaries:      summaries,
		SentimentScore: result.SentimentScore,
		SentimentLabel: result.SentimentLabel,
		ModelVersion:   result.ModelVersion,
		ArticleCount:   result.ArticleCount,
	}, nil
}

func buildView(ticker *models.Ticker, bullets []models.SummaryPoint, score decimal.Decimal, label string, basedOn int, articles []models.Article) *DigestView {
	views := make([]ArticleView, 0, len(articles))
	lastUpdated := time.Time{}
	for _, a := range articles {
		views = append(views, ArticleView{
			ID:          a.ID,
			Title:       a.Title,
			Source:      a.Source,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
		ts := a.CreatedAt
		if a.PublishedAt != nil {
			ts = *a.PublishedAt
		}
		if ts.After(lastUpdated) {
			lastUpdated = ts
		}
	}

	return &DigestView{
		Symbol:      ticker.Symbol,
		CompanyName: ticker.Name,
		LastUpdated: lastUpdated,
		Digest: DigestBody{
			Summary:         bullets,
			Sentiment:       SentimentView{Score: score, Label: label},
			BasedOnArticles: basedOn,
		},
		Articles: views,
	}
}
