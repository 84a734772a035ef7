package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Journal gom 1 tài liệu PDF cùng quiz và flashcard sinh ra từ nó
type Journal struct {
	ID           string    `gorm:"type:varchar(256);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(256);not null;index:journal_user_idx" json:"user_id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description"`
	LastModified time.Time `gorm:"not null;index:journal_modified_idx" json:"last_modified"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Document   *Document   `gorm:"foreignKey:JournalID;constraint:OnDelete:CASCADE;" json:"document,omitempty"`
	Quizzes    []Quiz      `gorm:"foreignKey:JournalID;constraint:OnDelete:CASCADE;" json:"quizzes,omitempty"`
	Flashcards []Flashcard `gorm:"foreignKey:JournalID;constraint:OnDelete:CASCADE;" json:"flashcards,omitempty"`
}

func (j *Journal) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.LastModified.IsZero() {
		j.LastModified = time.Now()
	}
	return nil
}
