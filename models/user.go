package models

import (
	"time"
)

// User được đồng bộ từ identity provider qua webhook, khoá chính là id của provider
type User struct {
	UserID          string     `gorm:"column:user_id;type:varchar(256);primaryKey" json:"user_id"`
	Username        *string    `gorm:"size:100" json:"username"`
	Email           string     `gorm:"size:256;uniqueIndex;not null" json:"email"`
	ProfileImageURL *string    `gorm:"type:text" json:"profile_image_url"`
	LastSeenAt      *time.Time `json:"last_seen_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Quan hệ
	Journals []Journal `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE;" json:"journals,omitempty"`
}
