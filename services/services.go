package services

import (
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-learning-journal/utils"
)

// Services gom các service dùng chung, được gắn vào gin context bởi middleware
type Services struct {
	Journals   *JournalService
	Quizzes    *QuizService
	Flashcards *FlashcardService
	Users      *UserService
}

func New(db *gorm.DB, gen Generator, retry utils.RetryPolicy) *Services {
	quizzes := NewQuizService(db, gen, retry)
	return &Services{
		Journals:   NewJournalService(db, quizzes, retry),
		Quizzes:    quizzes,
		Flashcards: NewFlashcardService(db, gen, retry),
		Users:      NewUserService(db, retry),
	}
}
