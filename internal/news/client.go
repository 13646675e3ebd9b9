package news

import (
	"context"
	"errors"
	"time"
)

// ErrSourceUnavailable is returned when every configured source failed to
// produce a single article for the requested symbol.
var ErrSourceUnavailable = errors.New("news sources unavailable")

// RawArticle is one article as reported by a source, before it is persisted.
type RawArticle struct {
	Title       string
	URL         string
	Source      string
	PublishedAt *time.Time
	RawContent  string
}

// Source supplies recent articles for a ticker symbol, newest first.
type Source interface {
	Fetch(ctx context.Context, symbol string, limit int) ([]RawArticle, error)
	Name() string
}

// TickerInfo is the reference data a source can resolve for a symbol.
type TickerInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
}
