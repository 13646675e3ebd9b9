package models

import "time"

// Ticker is immutable reference data for a tradable symbol.
// Rows are created once on first resolution and never updated by the digest path.
type Ticker struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol   string `gorm:"type:varchar(20);not null;uniqueIndex" json:"symbol"`
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	Exchange string `gorm:"type:varchar(50)" json:"exchange"`
	Sector   string `gorm:"type:varchar(100)" json:"sector"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Ticker) TableName() string {
	return "tickers"
}
