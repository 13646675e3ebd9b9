package gormrepository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finaily/internal/models"
	"finaily/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- tickers ----------------------------------------------------------------

func (s *Store) GetTickerBySymbol(ctx context.Context, symbol string) (*models.Ticker, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Ticker
	err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertTicker(ctx context.Context, item *models.Ticker) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(item).Error
}

// --- articles ---------------------------------------------------------------

func (s *Store) UpsertArticles(ctx context.Context, items []models.Article) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	// URL collisions mean the article was already stored by an earlier fetch;
	// keep the existing row untouched.
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(&items).Error
}

func (s *Store) ListArticles(ctx context.Context, params repository.ListArticlesParams) ([]models.Article, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("ticker_id = ?", params.TickerID)
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	var items []models.Article
	err := query.
		Order("published_at DESC NULLS LAST").
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListArticlesByIDs(ctx context.Context, ids []uint64) ([]models.Article, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.Article
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- digests ----------------------------------------------------------------

func (s *Store) InsertDigest(ctx context.Context, item *models.Digest) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetLatestDigestByTickerID(ctx context.Context, tickerID uint64) (*models.Digest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Digest
	err := s.db.WithContext(ctx).
		Where("ticker_id = ?", tickerID).
		Order("created_at DESC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DeleteDigestsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil || before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.Digest{})
	return res.RowsAffected, res.Error
}

// --- guest quota ------------------------------------------------------------

func (s *Store) IncrementGuestQuota(ctx context.Context, origin, day string) (int, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	// Check-and-increment must be one statement so concurrent requests from
	// the same origin cannot both observe the same pre-increment count.
	var count int
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO guest_quotas (origin, day, count, updated_at)
		VALUES (?, ?, 1, NOW())
		ON CONFLICT (origin, day)
		DO UPDATE SET count = guest_quotas.count + 1, updated_at = NOW()
		RETURNING count`,
		origin, day,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) DeleteGuestQuotasBefore(ctx context.Context, day string) (int64, error) {
	if s == nil || s.db == nil || day == "" {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("day < ?", day).
		Delete(&models.GuestQuota{})
	return res.RowsAffected, res.Error
}

// --- users ------------------------------------------------------------------

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(item).Error
}

func (s *Store) UpdateUser(ctx context.Context, id string, updates map[string]any) (*models.User, error) {
	if s == nil || s.db == nil || len(updates) == 0 {
		return s.GetUserByID(ctx, id)
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}
