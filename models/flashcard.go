package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Flashcard struct {
	ID           string     `gorm:"type:varchar(256);primaryKey" json:"id"`
	JournalID    string     `gorm:"type:varchar(256);not null;index:flashcard_journal_idx" json:"journal_id"`
	Question     string     `gorm:"type:text;not null" json:"question"`
	Answer       string     `gorm:"type:text;not null" json:"answer"`
	LastReviewed *time.Time `json:"last_reviewed"` // lần ôn gần nhất
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Flashcard) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
