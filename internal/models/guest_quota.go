package models

import "time"

// GuestQuota is the per-(origin, day) request counter backing the postgres
// quota gate. Day is formatted as "2006-01-02" in the reference timezone.
// Rows are superseded naturally at the day boundary, never reset in place.
type GuestQuota struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Origin string `gorm:"type:varchar(64);not null;uniqueIndex:idx_guest_quota_origin_day"`
	Day    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_guest_quota_origin_day"`
	Count  int    `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (GuestQuota) TableName() string {
	return "guest_quotas"
}
