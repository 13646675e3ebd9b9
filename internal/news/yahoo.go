package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// YahooClient talks to the Yahoo Finance search endpoint, which serves both
// ticker resolution and the primary news feed.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewYahooClient(httpClient *http.Client, baseURL string) *YahooClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &YahooClient{httpClient: httpClient, baseURL: baseURL}
}

func (c *YahooClient) Name() string {
	return "Yahoo Finance"
}

type yahooSearchResponse struct {
	Quotes []yahooQuote `json:"quotes"`
	News   []yahooNews  `json:"news"`
}

type yahooQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	Exchange  string `json:"exchange"`
	QuoteType string `json:"quoteType"`
	Sector    string `json:"sector"`
}

type yahooNews struct {
	UUID                string `json:"uuid"`
	Title               string `json:"title"`
	Publisher           string `json:"publisher"`
	Link                string `json:"link"`
	Summary             string `json:"summary"`
	ProviderPublishTime int64  `json:"providerPublishTime"`
}

// Fetch returns up to limit recent articles mentioning the symbol.
func (c *YahooClient) Fetch(ctx context.Context, symbol string, limit int) ([]RawArticle, error) {
	res, err := c.search(ctx, symbol, 0, limit)
	if err != nil {
		return nil, err
	}

	articles := make([]RawArticle, 0, len(res.News))
	for _, item := range res.News {
		if item.Link == "" {
			continue
		}
		content := item.Summary
		if content == "" {
			content = item.Title
		}
		var publishedAt *time.Time
		if item.ProviderPublishTime > 0 {
			ts := time.Unix(item.ProviderPublishTime, 0).UTC()
			publishedAt = &ts
		}
		articles = append(articles, RawArticle{
			Title:       item.Title,
			URL:         item.Link,
			Source:      firstNonEmpty(item.Publisher, c.Name()),
			PublishedAt: publishedAt,
			RawContent:  content,
		})
		if len(articles) >= limit {
			break
		}
	}
	return articles, nil
}

// Lookup resolves a symbol to its reference data. Returns (nil, nil) when the
// symbol matches no listed equity.
func (c *YahooClient) Lookup(ctx context.Context, symbol string) (*TickerInfo, error) {
	results, err := c.Search(ctx, symbol, 10)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Symbol == symbol {
			return &r, nil
		}
	}
	return nil, nil
}

// Search returns equity quotes matching the query, for autocomplete.
func (c *YahooClient) Search(ctx context.Context, query string, max int) ([]TickerInfo, error) {
	res, err := c.search(ctx, query, max, 0)
	if err != nil {
		return nil, err
	}

	results := make([]TickerInfo, 0, len(res.Quotes))
	for _, q := range res.Quotes {
		if q.QuoteType != "EQUITY" || q.Symbol == "" {
			continue
		}
		results = append(results, TickerInfo{
			Symbol:   q.Symbol,
			Name:     firstNonEmpty(q.ShortName, q.LongName),
			Exchange: q.Exchange,
			Sector:   q.Sector,
		})
	}
	return results, nil
}

func (c *YahooClient) search(ctx context.Context, query string, quotesCount, newsCount int) (*yahooSearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(quotesCount))
	params.Set("newsCount", strconv.Itoa(newsCount))

	endpoint := c.baseURL + "/v1/finance/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "finaily/0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("yahoo search: status %d: %s", resp.StatusCode, string(body))
	}

	var out yahooSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	return &out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
