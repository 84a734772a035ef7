package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document là metadata của file PDF đã upload lên storage (1-1 với Journal)
type Document struct {
	ID         string    `gorm:"type:varchar(256);primaryKey" json:"id"`
	JournalID  string    `gorm:"type:varchar(256);not null;index:document_journal_idx" json:"journal_id"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	Key        string    `gorm:"type:text;not null" json:"key"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	Size       int64     `json:"size"` // bytes
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
