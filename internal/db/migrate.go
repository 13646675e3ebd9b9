package db

import (
	"finaily/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Ticker{},
		&models.Article{},
		&models.Digest{},
		&models.GuestQuota{},
		&models.User{},
	)
}
