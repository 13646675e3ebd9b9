package models

import "time"

// Article is one fetched news item for a ticker. The URL is the dedup key across
// the whole store; rows are insert-only and never mutated after first sighting.
type Article struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TickerID uint64 `gorm:"not null;index" json:"ticker_id"`

	Title  string `gorm:"type:varchar(500);not null" json:"title"`
	Source string `gorm:"type:varchar(100)" json:"source"`
	URL    string `gorm:"type:varchar(500);not null;uniqueIndex" json:"url"`

	// PublishedAt is nullable: some sources omit it. Undated rows sort after
	// all dated ones.
	PublishedAt *time.Time `gorm:"type:timestamptz;index" json:"published_at"`

	// RawContent is trimmed at ingest and only ever fed to the summarizer.
	RawContent string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Article) TableName() string {
	return "articles"
}
