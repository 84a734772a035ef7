package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/ai-learning-journal/config"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

const twoQuestionQuiz = `**Question 1**
Text: What is the capital of France?
Options: Paris, London, Berlin, Madrid
Correct: Paris

**Question 2**
Text: What is 2 + 2?
Options: 3, 4, 5, 6
Correct: 4`

type fakeGenerator struct {
	quiz       string
	flashcards string
	err        error
	calls      int
}

func (f *fakeGenerator) QuizText(ctx context.Context, pdfURL string) (string, error) {
	f.calls++
	return f.quiz, f.err
}

func (f *fakeGenerator) FlashcardText(ctx context.Context, pdfURL string) (string, error) {
	f.calls++
	return f.flashcards, f.err
}

var testRetry = utils.RetryPolicy{Attempts: 2, Delay: time.Millisecond}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := config.SQLiteDSN(filepath.Join(t.TempDir(), "journal.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestServices(t *testing.T, gen Generator) (*Services, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, gen, testRetry), db
}

func validJournalInput() CreateJournalInput {
	return CreateJournalInput{
		Title:       "Biology notes",
		Description: "chapter 1",
		FileURL:     "https://storage.example.com/journals/u1/notes.pdf",
		FileKey:     "journals/u1/notes.pdf",
		FileName:    "notes.pdf",
		FileSize:    1024,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
