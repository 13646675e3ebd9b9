package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finaily/internal/llm"
	"finaily/internal/models"
)

var (
	// ErrUnavailable covers every backend failure: auth, quota, network,
	// timeout. Callers only need "the backend did not answer".
	ErrUnavailable = errors.New("summarization backend unavailable")

	// ErrBadFormat means the backend answered but the text could not be
	// validated into a digest. Such results must never be cached.
	ErrBadFormat = errors.New("summarization output not parseable")
)

// Result is a fully validated digest produced from one backend call.
type Result struct {
	Summaries      map[string][]models.SummaryPoint
	SentimentScore decimal.Decimal
	SentimentLabel string
	ModelVersion   string
	ArticleIDs     []uint64
	ArticleCount   int
}

// Summarizer turns a batch of articles into one digest with exactly one
// generative backend call per invocation. The digest cache exists to amortize
// that call, so this component must never issue more than one.
type Summarizer struct {
	Client llm.Client
	Logger *zap.Logger

	Languages    []string
	MaxBullets   int
	ExcerptChars int
	Timeout      time.Duration
}

func (s *Summarizer) Summarize(ctx context.Context, symbol, companyName string, articles []models.Article) (*Result, error) {
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: no articles to summarize", ErrBadFormat)
	}

	maxBullets := s.MaxBullets
	if maxBullets <= 0 {
		maxBullets = 10
	}
	languages := s.Languages
	if len(languages) == 0 {
		languages = []string{"ko", "en"}
	}

	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	prompt := buildPrompt(symbol, companyName, articles, languages, maxBullets, s.excerptChars())

	if s.Logger != nil {
		s.Logger.Info("calling summarization backend",
			zap.String("symbol", symbol),
			zap.Int("articles", len(articles)),
			zap.String("model", s.Client.Model()),
		)
	}

	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	raw, err := s.Client.Complete(callCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	parsed, err := parseDigest(raw, languages, maxBullets)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("backend returned unusable output",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
		return nil, err
	}

	ids := make([]uint64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	parsed.ModelVersion = s.Client.Model()
	parsed.ArticleIDs = ids
	parsed.ArticleCount = len(articles)
	return parsed, nil
}

func (s *Summarizer) excerptChars() int {
	if s.ExcerptChars <= 0 {
		return 500
	}
	return s.ExcerptChars
}

const maxArticles = 10
