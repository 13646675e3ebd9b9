package models

import "time"

// User is the profile row for an authenticated caller. The ID is the JWT
// subject; rows are provisioned lazily on first profile read.
type User struct {
	ID                string  `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email             string  `gorm:"type:varchar(200)" json:"email"`
	DisplayName       *string `gorm:"type:varchar(100)" json:"display_name"`
	PreferredLanguage string  `gorm:"type:varchar(5);not null;default:ko" json:"preferred_language"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
