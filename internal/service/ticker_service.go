package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"finaily/internal/models"
	"finaily/internal/news"
	"finaily/internal/repository"
)

// TickerDirectory is the slice of the finance provider the ticker service
// needs: resolve one symbol, search many.
type TickerDirectory interface {
	Lookup(ctx context.Context, symbol string) (*news.TickerInfo, error)
	Search(ctx context.Context, query string, max int) ([]news.TickerInfo, error)
}

type TickerService struct {
	Repo      repository.Repository
	Directory TickerDirectory
	Logger    *zap.Logger
}

// Resolve maps a symbol to its ticker row. Unknown symbols are looked up with
// the provider and registered on first sighting; symbols the provider does not
// know either yield ErrTickerNotFound.
func (s *TickerService) Resolve(ctx context.Context, symbol string) (*models.Ticker, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrTickerNotFound
	}

	ticker, err := s.Repo.GetTickerBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("ticker lookup: %w", err)
	}
	if ticker != nil {
		return ticker, nil
	}

	if s.Directory == nil {
		return nil, ErrTickerNotFound
	}
	info, err := s.Directory.Lookup(ctx, symbol)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("ticker directory lookup failed",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
		return nil, ErrTickerNotFound
	}
	if info == nil || info.Name == "" {
		return nil, ErrTickerNotFound
	}

	ticker = &models.Ticker{
		Symbol:   symbol,
		Name:     info.Name,
		Exchange: info.Exchange,
		Sector:   info.Sector,
	}
	if err := s.Repo.InsertTicker(ctx, ticker); err != nil {
		return nil, fmt.Errorf("ticker register: %w", err)
	}
	if ticker.ID == 0 {
		// Concurrent registration won the insert; read the winner back.
		existing, err := s.Repo.GetTickerBySymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("ticker lookup: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}
	return ticker, nil
}

// Search is the autocomplete path: exact-symbol equity matches only.
func (s *TickerService) Search(ctx context.Context, query string, max int) ([]news.TickerInfo, error) {
	if s.Directory == nil {
		return nil, nil
	}
	results, err := s.Directory.Search(ctx, query, max)
	if err != nil {
		return nil, fmt.Errorf("ticker search: %w", err)
	}

	keyword := strings.ToUpper(strings.TrimSpace(query))
	matched := make([]news.TickerInfo, 0, len(results))
	for _, r := range results {
		if strings.ToUpper(r.Symbol) != keyword {
			continue
		}
		matched = append(matched, r)
	}
	return matched, nil
}
