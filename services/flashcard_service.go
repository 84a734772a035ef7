package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/ai-learning-journal/models"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

type FlashcardService struct {
	db    *gorm.DB
	gen   Generator
	retry utils.RetryPolicy
}

func NewFlashcardService(db *gorm.DB, gen Generator, retry utils.RetryPolicy) *FlashcardService {
	return &FlashcardService{db: db, gen: gen, retry: retry}
}

// Generate sinh tối đa 5 flashcard từ tài liệu của journal
func (s *FlashcardService) Generate(ctx context.Context, userID, journalID string) ([]models.Flashcard, error) {
	journal, err := findOwnedJournal(s.db.WithContext(ctx), userID, journalID)
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := s.db.WithContext(ctx).Where("journal_id = ?", journal.ID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationError("journal has no document")
		}
		return nil, err
	}
	if s.gen == nil {
		return nil, fmt.Errorf("%w: generator is not configured", ErrGeneration)
	}

	raw, err := s.gen.FlashcardText(ctx, doc.URL)
	if err != nil {
		return nil, err
	}
	drafts := ParseFlashcards(raw)
	if len(drafts) == 0 {
		return nil, ErrNoFlashcards
	}

	cards := make([]models.Flashcard, 0, len(drafts))
	for _, d := range drafts {
		cards = append(cards, models.Flashcard{JournalID: journal.ID, Question: d.Question, Answer: d.Answer})
	}
	err = s.retry.Retry(ctx, "create flashcards", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&cards).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *FlashcardService) List(ctx context.Context, userID, journalID string) ([]models.Flashcard, error) {
	journal, err := findOwnedJournal(s.db.WithContext(ctx), userID, journalID)
	if err != nil {
		return nil, err
	}
	var cards []models.Flashcard
	if err := s.db.WithContext(ctx).
		Where("journal_id = ?", journal.ID).
		Order("created_at ASC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// MarkReviewed cập nhật last_reviewed của flashcard thuộc journal của user
func (s *FlashcardService) MarkReviewed(ctx context.Context, userID, flashcardID string) (*models.Flashcard, error) {
	var card models.Flashcard
	err := s.db.WithContext(ctx).
		Joins("JOIN journals ON journals.id = flashcards.journal_id").
		Where("flashcards.id = ? AND journals.user_id = ?", flashcardID, userID).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlashcardNotFound
		}
		return nil, err
	}

	now := time.Now()
	err = s.retry.Retry(ctx, "review flashcard", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Model(&models.Flashcard{}).
			Where("id = ?", card.ID).
			Update("last_reviewed", now).Error
	})
	if err != nil {
		return nil, err
	}
	card.LastReviewed = &now
	return &card, nil
}
