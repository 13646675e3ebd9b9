package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finaily/internal/models"
	"finaily/internal/news"
	"finaily/internal/quota"
	"finaily/internal/repository"
	"finaily/internal/summarizer"
)

type stubDirectory struct {
	infos map[string]*news.TickerInfo
}

func (s *stubDirectory) Lookup(ctx context.Context, symbol string) (*news.TickerInfo, error) {
	return s.infos[symbol], nil
}

func (s *stubDirectory) Search(ctx context.Context, query string, max int) ([]news.TickerInfo, error) {
	var out []news.TickerInfo
	for _, info := range s.infos {
		out = append(out, *info)
	}
	return out, nil
}

type stubFetcher struct {
	repo  *stubRepo
	count int
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, tickerID uint64, symbol string, limit int) ([]models.Article, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	items := make([]models.Article, 0, f.count)
	for i := 0; i < f.count; i++ {
		items = append(items, models.Article{
			TickerID:   tickerID,
			Title:      fmt.Sprintf("%s story %d", symbol, i+1),
			Source:     "Test",
			URL:        fmt.Sprintf("https://example.com/%s/%d", symbol, i+1),
			RawContent: "content",
		})
	}
	if err := f.repo.UpsertArticles(ctx, items); err != nil {
		return nil, err
	}
	return f.repo.ListArticles(ctx, repository.ListArticlesParams{TickerID: tickerID, Limit: limit})
}

type stubSummarizer struct {
	err   error
	calls int
}

func (s *stubSummarizer) Summarize(ctx context.Context, symbol, companyName string, articles []models.Article) (*summarizer.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]uint64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return &summarizer.Result{
		Summaries: map[string][]models.SummaryPoint{
			"ko": {{Point: "요점", Quote: "quote"}},
			"en": {{Point: "Key point", Quote: "quote"}},
		},
		SentimentScore: decimal.NewFromFloat(0.45),
		SentimentLabel: models.SentimentPositive,
		ModelVersion:   "fake-model-1",
		ArticleIDs:     ids,
		ArticleCount:   len(articles),
	}, nil
}

func newTestDigestService(repo *stubRepo, fetcher *stubFetcher, summ *stubSummarizer, gate quota.Gate) *DigestService {
	return &DigestService{
		Repo: repo,
		Tickers: &TickerService{
			Repo: repo,
			Directory: &stubDirectory{infos: map[string]*news.TickerInfo{
				"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NMS"},
			}},
		},
		Fetcher:     fetcher,
		Summarizer:  summ,
		Cache:       &DigestCache{Repo: repo, TTL: 24 * time.Hour},
		Quota:       gate,
		Languages:   []string{"ko", "en"},
		MaxArticles: 10,
	}
}

func TestGetDigest_MissThenHit(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{repo: repo, count: 10}
	summ := &stubSummarizer{}
	svc := newTestDigestService(repo, fetcher, summ, nil)
	ctx := context.Background()

	first, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Lang: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summ.calls != 1 || repo.insertDigestCalls != 1 {
		t.Fatalf("summarize=%d inserts=%d want 1/1", summ.calls, repo.insertDigestCalls)
	}
	if first.Symbol != "AAPL" || first.CompanyName != "Apple Inc." {
		t.Fatalf("view=%+v", first)
	}
	if first.Digest.BasedOnArticles != 10 || len(first.Articles) != 10 {
		t.Fatalf("based_on=%d articles=%d want 10/10", first.Digest.BasedOnArticles, len(first.Articles))
	}
	if first.Digest.Sentiment.Label != models.SentimentPositive {
		t.Fatalf("label=%s", first.Digest.Sentiment.Label)
	}

	second, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Lang: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summ.calls != 1 {
		t.Fatalf("cache hit must not summarize again, calls=%d", summ.calls)
	}
	if fetcher.calls != 1 {
		t.Fatalf("cache hit must not fetch again, calls=%d", fetcher.calls)
	}
	if len(second.Digest.Summary) != len(first.Digest.Summary) {
		t.Fatalf("hit and miss responses differ")
	}
	if !second.Digest.Sentiment.Score.Equal(first.Digest.Sentiment.Score) {
		t.Fatalf("score differs across hit/miss")
	}
}

func TestGetDigest_LanguageSelection(t *testing.T) {
	repo := newStubRepo()
	svc := newTestDigestService(repo, &stubFetcher{repo: repo, count: 2}, &stubSummarizer{}, nil)
	ctx := context.Background()

	ko, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Lang: "ko"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ko.Digest.Summary[0].Point != "요점" {
		t.Fatalf("ko summary=%v", ko.Digest.Summary)
	}

	// Default language applies when lang is omitted; a second language served
	// from cache must not trigger another summarization.
	en, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Lang: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if en.Digest.Summary[0].Point != "Key point" {
		t.Fatalf("en summary=%v", en.Digest.Summary)
	}
	if repo.insertDigestCalls != 1 {
		t.Fatalf("inserts=%d want=1", repo.insertDigestCalls)
	}

	if _, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Lang: "fr"}); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("err=%v want ErrUnsupportedLanguage", err)
	}
}

func TestGetDigest_UnknownTicker(t *testing.T) {
	repo := newStubRepo()
	svc := newTestDigestService(repo, &stubFetcher{repo: repo, count: 1}, &stubSummarizer{}, nil)

	_, err := svc.GetDigest(context.Background(), GetDigestParams{Symbol: "ZZZZ"})
	if !errors.Is(err, ErrTickerNotFound) {
		t.Fatalf("err=%v want ErrTickerNotFound", err)
	}
}

func TestGetDigest_GuestQuota(t *testing.T) {
	repo := newStubRepo()
	gate := &quota.MemoryGate{Limit: 1}
	svc := newTestDigestService(repo, &stubFetcher{repo: repo, count: 1}, &stubSummarizer{}, gate)
	ctx := context.Background()

	if _, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Origin: "1.2.3.4"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Origin: "1.2.3.4"})
	if !errors.Is(err, quota.ErrDailyLimit) {
		t.Fatalf("err=%v want ErrDailyLimit", err)
	}

	// Authenticated callers bypass the guest gate.
	if _, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL", Origin: "1.2.3.4", UserID: "u1"}); err != nil {
		t.Fatalf("unexpected error for authenticated caller: %v", err)
	}
}

func TestGetDigest_SourceFailureCachesNothing(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{repo: repo, err: news.ErrSourceUnavailable}
	svc := newTestDigestService(repo, fetcher, &stubSummarizer{}, nil)

	_, err := svc.GetDigest(context.Background(), GetDigestParams{Symbol: "AAPL"})
	if !errors.Is(err, news.ErrSourceUnavailable) {
		t.Fatalf("err=%v want ErrSourceUnavailable", err)
	}
	if repo.insertDigestCalls != 0 {
		t.Fatalf("failed requests must not cache digests")
	}
}

func TestGetDigest_SummarizerFailureCachesNothing(t *testing.T) {
	for _, sentinel := range []error{summarizer.ErrUnavailable, summarizer.ErrBadFormat} {
		repo := newStubRepo()
		svc := newTestDigestService(repo, &stubFetcher{repo: repo, count: 3}, &stubSummarizer{err: sentinel}, nil)

		_, err := svc.GetDigest(context.Background(), GetDigestParams{Symbol: "AAPL"})
		if !errors.Is(err, sentinel) {
			t.Fatalf("err=%v want %v", err, sentinel)
		}
		if repo.insertDigestCalls != 0 {
			t.Fatalf("failed summarization must not cache digests")
		}
	}
}

func TestGetDigest_CachedArticleOrderPreserved(t *testing.T) {
	repo := newStubRepo()
	svc := newTestDigestService(repo, &stubFetcher{repo: repo, count: 3}, &stubSummarizer{}, nil)
	ctx := context.Background()

	first, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetDigest(ctx, GetDigestParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Articles) != len(first.Articles) {
		t.Fatalf("article count differs: %d vs %d", len(second.Articles), len(first.Articles))
	}
	for i := range first.Articles {
		if second.Articles[i].ID != first.Articles[i].ID {
			t.Fatalf("article order changed at %d", i)
		}
	}
}
