package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrJournalNotFound   = errors.New("journal not found or you do not have permission to access it")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrFlashcardNotFound = errors.New("flashcard not found")
	ErrNotGraded         = errors.New("you haven't taken this quiz yet")
	ErrConflict          = errors.New("quiz was graded concurrently, reload and submit again")

	ErrGeneration   = errors.New("generation failed")
	ErrNoQuestions  = fmt.Errorf("%w: no valid quiz questions generated", ErrGeneration)
	ErrNoFlashcards = fmt.Errorf("%w: no valid flashcards generated", ErrGeneration)
)

// ErrJournalDeleteDenied vẫn khớp errors.Is(err, ErrJournalNotFound)
var ErrJournalDeleteDenied error = &messageError{
	msg: "journal not found or you do not have permission to delete it",
	err: ErrJournalNotFound,
}

type messageError struct {
	msg string
	err error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.err }

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
