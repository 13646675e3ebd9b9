package service

import (
	"context"
	"errors"
	"testing"

	"finaily/internal/news"
)

func TestResolve_RegistersOnFirstSight(t *testing.T) {
	repo := newStubRepo()
	svc := &TickerService{
		Repo: repo,
		Directory: &stubDirectory{infos: map[string]*news.TickerInfo{
			"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NMS", Sector: "Technology"},
		}},
	}
	ctx := context.Background()

	ticker, err := svc.Resolve(ctx, "aapl ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticker.Symbol != "AAPL" || ticker.Name != "Apple Inc." || ticker.ID == 0 {
		t.Fatalf("ticker=%+v", ticker)
	}

	// Second resolution is answered from the store; the directory no longer
	// matters.
	svc.Directory = nil
	again, err := svc.Resolve(ctx, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != ticker.ID {
		t.Fatalf("id=%d want=%d", again.ID, ticker.ID)
	}
}

func TestResolve_UnknownSymbol(t *testing.T) {
	svc := &TickerService{
		Repo:      newStubRepo(),
		Directory: &stubDirectory{infos: map[string]*news.TickerInfo{}},
	}

	for _, symbol := range []string{"ZZZZ", "", "   "} {
		if _, err := svc.Resolve(context.Background(), symbol); !errors.Is(err, ErrTickerNotFound) {
			t.Fatalf("symbol=%q err=%v want ErrTickerNotFound", symbol, err)
		}
	}
}

func TestSearch_ExactSymbolOnly(t *testing.T) {
	svc := &TickerService{
		Repo: newStubRepo(),
		Directory: &stubDirectory{infos: map[string]*news.TickerInfo{
			"AAPL": {Symbol: "AAPL", Name: "Apple Inc."},
			"APLE": {Symbol: "APLE", Name: "Apple Hospitality REIT"},
		}},
	}

	results, err := svc.Search(context.Background(), "aapl", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Symbol != "AAPL" {
		t.Fatalf("results=%v", results)
	}
}
