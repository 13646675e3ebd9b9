package news

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// Feed names one RSS source and where to fetch it.
type Feed struct {
	Name string
	URL  string
}

// RSSClient is the secondary source: generic finance feeds filtered down to
// entries that mention the symbol in their title. Feeds are polled in their
// configured order, so undated entries keep a stable relative order across
// runs.
type RSSClient struct {
	feeds   []Feed
	parser  *gofeed.Parser
	timeout time.Duration
	logger  *zap.Logger
}

func NewRSSClient(feeds []Feed, timeout time.Duration, logger *zap.Logger) *RSSClient {
	return &RSSClient{
		feeds:   feeds,
		parser:  gofeed.NewParser(),
		timeout: timeout,
		logger:  logger,
	}
}

func (c *RSSClient) Name() string {
	return "RSS"
}

func (c *RSSClient) Fetch(ctx context.Context, symbol string, limit int) ([]RawArticle, error) {
	var articles []RawArticle
	for _, source := range c.feeds {
		feedCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			feedCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		feed, err := c.parser.ParseURLWithContext(source.URL, feedCtx)
		if err != nil {
			// A broken feed must not take down the whole fallback.
			if c.logger != nil {
				c.logger.Warn("rss feed fetch failed",
					zap.String("source", source.Name),
					zap.Error(err),
				)
			}
			continue
		}
		articles = append(articles, collectFromFeed(feed, source.Name, symbol)...)
	}

	sortNewestFirst(articles)
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// collectFromFeed keeps the feed entries whose title mentions the symbol.
func collectFromFeed(feed *gofeed.Feed, sourceName, symbol string) []RawArticle {
	if feed == nil {
		return nil
	}
	keyword := strings.ToUpper(symbol)
	var out []RawArticle
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		if !strings.Contains(strings.ToUpper(item.Title), keyword) {
			continue
		}
		content := item.Description
		if content == "" {
			content = item.Title
		}
		var publishedAt *time.Time
		if item.PublishedParsed != nil {
			ts := item.PublishedParsed.UTC()
			publishedAt = &ts
		}
		out = append(out, RawArticle{
			Title:       item.Title,
			URL:         item.Link,
			Source:      sourceName,
			PublishedAt: publishedAt,
			RawContent:  content,
		})
	}
	return out
}
