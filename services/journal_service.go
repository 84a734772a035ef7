package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-learning-journal/models"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

type CreateJournalInput struct {
	Title       string
	Description string
	FileURL     string
	FileKey     string
	FileName    string
	FileSize    int64
}

type JournalService struct {
	db      *gorm.DB
	quizzes *QuizService
	retry   utils.RetryPolicy
}

func NewJournalService(db *gorm.DB, quizzes *QuizService, retry utils.RetryPolicy) *JournalService {
	return &JournalService{db: db, quizzes: quizzes, retry: retry}
}

// Create sinh quiz trước, sau đó ghi user (nếu chưa có), journal, document, quiz trong cùng 1 transaction.
// Sinh quiz lỗi thì không có dòng nào được ghi.
func (s *JournalService) Create(ctx context.Context, userID string, in CreateJournalInput) (*models.Journal, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.FileURL == "" || in.FileKey == "" || in.FileName == "" || in.FileSize < 0 {
		return nil, validationError("title and PDF are required")
	}
	if len([]rune(in.Title)) > 100 {
		return nil, validationError("title must be at most 100 characters")
	}

	questions, err := s.quizzes.GenerateQuestions(ctx, in.FileURL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	journal := models.Journal{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        in.Title,
		LastModified: now,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		journal.Description = &desc
	}
	document := models.Document{
		ID:        uuid.NewString(),
		JournalID: journal.ID,
		URL:       in.FileURL,
		Key:       in.FileKey,
		Name:      in.FileName,
		Size:      in.FileSize,
	}
	quiz := models.Quiz{ID: uuid.NewString(), JournalID: journal.ID}
	if err := quiz.SetQuestions(questions); err != nil {
		return nil, err
	}

	err = s.retry.Retry(ctx, "create journal", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := ensureUser(tx, userID); err != nil {
				return err
			}
			if err := tx.Create(&journal).Error; err != nil {
				return fmt.Errorf("create journal: %w", err)
			}
			if err := tx.Create(&document).Error; err != nil {
				return fmt.Errorf("create document: %w", err)
			}
			if err := tx.Create(&quiz).Error; err != nil {
				return fmt.Errorf("create quiz: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	journal.Document = &document
	journal.Quizzes = []models.Quiz{quiz}
	utils.Log.Info("journal created", "journal_id", journal.ID, "user_id", userID, "questions", len(questions))
	return &journal, nil
}

// ensureUser tạo bản ghi user tạm nếu webhook chưa kịp đồng bộ
func ensureUser(tx *gorm.DB, userID string) error {
	placeholder := models.User{
		UserID: userID,
		Email:  fmt.Sprintf("%s@unknown.invalid", userID),
	}
	if err := tx.Where("user_id = ?", userID).FirstOrCreate(&placeholder).Error; err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

func (s *JournalService) List(ctx context.Context, userID string) ([]models.Journal, error) {
	var journals []models.Journal
	err := s.db.WithContext(ctx).
		Preload("Document").
		Where("user_id = ?", userID).
		Order("last_modified DESC").
		Find(&journals).Error
	if err != nil {
		return nil, err
	}
	return journals, nil
}

func (s *JournalService) Get(ctx context.Context, userID, journalID string) (*models.Journal, error) {
	var journal models.Journal
	err := s.db.WithContext(ctx).
		Preload("Document").
		Preload("Quizzes", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Flashcards", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Where("id = ? AND user_id = ?", journalID, userID).
		First(&journal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, err
	}
	return &journal, nil
}

// Delete kiểm tra quyền sở hữu rồi xoá quiz, flashcard, document, journal trong 1 transaction.
// Trả về document đã xoá (nếu có) để caller dọn file trên storage.
func (s *JournalService) Delete(ctx context.Context, userID, journalID string) (*models.Document, error) {
	journal, err := findOwnedJournal(s.db.WithContext(ctx), userID, journalID)
	if err != nil {
		if errors.Is(err, ErrJournalNotFound) {
			return nil, ErrJournalDeleteDenied
		}
		return nil, err
	}

	var document *models.Document
	err = s.retry.Retry(ctx, "delete journal", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var doc models.Document
			switch err := tx.Where("journal_id = ?", journal.ID).First(&doc).Error; {
			case err == nil:
				document = &doc
			case errors.Is(err, gorm.ErrRecordNotFound):
				document = nil
			default:
				return err
			}

			if err := tx.Where("journal_id = ?", journal.ID).Delete(&models.Quiz{}).Error; err != nil {
				return fmt.Errorf("delete quizzes: %w", err)
			}
			if err := tx.Where("journal_id = ?", journal.ID).Delete(&models.Flashcard{}).Error; err != nil {
				return fmt.Errorf("delete flashcards: %w", err)
			}
			if err := tx.Where("journal_id = ?", journal.ID).Delete(&models.Document{}).Error; err != nil {
				return fmt.Errorf("delete document: %w", err)
			}
			if err := tx.Delete(&models.Journal{}, "id = ?", journal.ID).Error; err != nil {
				return fmt.Errorf("delete journal: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	utils.Log.Info("journal deleted", "journal_id", journal.ID, "user_id", userID)
	return document, nil
}

func findOwnedJournal(db *gorm.DB, userID, journalID string) (*models.Journal, error) {
	if userID == "" || journalID == "" {
		return nil, ErrJournalNotFound
	}
	var journal models.Journal
	if err := db.Where("id = ? AND user_id = ?", journalID, userID).First(&journal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, err
	}
	return &journal, nil
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
