package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vnkhanh/ai-learning-journal/models"
)

func optionID(t *testing.T, q models.QuizQuestion, text string) string {
	t.Helper()
	for _, o := range q.Options {
		if o.Text == text {
			return o.ID
		}
	}
	t.Fatalf("option %q not found in %+v", text, q.Options)
	return ""
}

// seedQuiz tạo journal cho owner và trả về quiz cùng danh sách câu hỏi
func seedQuiz(t *testing.T, svc *Services, owner string) (*models.Quiz, []models.QuizQuestion) {
	t.Helper()
	journal, err := svc.Journals.Create(context.Background(), owner, validJournalInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	quiz, err := svc.Quizzes.Get(context.Background(), owner, journal.Quizzes[0].ID)
	if err != nil {
		t.Fatalf("Get quiz: %v", err)
	}
	questions, err := quiz.DecodeQuestions()
	if err != nil {
		t.Fatalf("DecodeQuestions: %v", err)
	}
	return quiz, questions
}

func TestGradeQuizPure(t *testing.T) {
	questions := []models.QuizQuestion{{
		ID:   "q1",
		Text: "Capital of France?",
		Options: []models.QuizOption{
			{ID: "o1", Text: "Paris"},
			{ID: "o2", Text: "London"},
			{ID: "o3", Text: "Berlin"},
			{ID: "o4", Text: "Madrid"},
		},
		Correct: "paris",
	}}

	cases := []struct {
		name      string
		submitted []SubmittedAnswer
		score     int
		selected  string
		invalid   int
	}{
		{"correct", []SubmittedAnswer{{QuestionID: "q1", SelectedAnswer: "o1"}}, 1, "Paris", 0},
		{"wrong", []SubmittedAnswer{{QuestionID: "q1", SelectedAnswer: "o2"}}, 0, "London", 0},
		{"unknown option", []SubmittedAnswer{{QuestionID: "q1", SelectedAnswer: "o9"}}, 0, "", 0},
		{"unknown question", []SubmittedAnswer{{QuestionID: "q9", SelectedAnswer: "o1"}}, 0, "", 1},
		{"first answer wins", []SubmittedAnswer{
			{QuestionID: "q1", SelectedAnswer: "o1"},
			{QuestionID: "q1", SelectedAnswer: "o2"},
		}, 1, "Paris", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, responses, invalid := GradeQuiz(questions, tc.submitted)
			if score != tc.score {
				t.Fatalf("unexpected score: got=%d want=%d", score, tc.score)
			}
			if len(responses) != len(questions) {
				t.Fatalf("one response per question expected, got %d", len(responses))
			}
			if responses[0].SelectedAnswer != tc.selected {
				t.Fatalf("unexpected selected answer: got=%q want=%q", responses[0].SelectedAnswer, tc.selected)
			}
			if responses[0].IsCorrect != (tc.score == 1) {
				t.Fatalf("isCorrect mismatch: %+v", responses[0])
			}
			if len(invalid) != tc.invalid {
				t.Fatalf("unexpected invalid count: got=%d want=%d", len(invalid), tc.invalid)
			}
		})
	}
}

func TestGradePersistsAndRegradeOverwrites(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{quiz: twoQuestionQuiz})
	ctx := context.Background()
	quiz, questions := seedQuiz(t, svc, "user_1")

	first, err := svc.Quizzes.Grade(ctx, "user_1", GradeInput{
		QuizID: quiz.ID,
		Responses: []SubmittedAnswer{
			{QuestionID: questions[0].ID, SelectedAnswer: optionID(t, questions[0], "Paris")},
			{QuestionID: questions[1].ID, SelectedAnswer: optionID(t, questions[1], "4")},
		},
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !first.Success || first.Score != 2 || first.TotalQuestions != 2 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if first.JournalID != quiz.JournalID {
		t.Fatalf("grade result should carry journal id")
	}

	second, err := svc.Quizzes.Grade(ctx, "user_1", GradeInput{
		QuizID: quiz.ID,
		Responses: []SubmittedAnswer{
			{QuestionID: questions[0].ID, SelectedAnswer: optionID(t, questions[0], "London")},
		},
	})
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}
	if second.Score != 0 || second.TotalQuestions != 2 {
		t.Fatalf("unexpected second result: %+v", second)
	}

	results, err := svc.Quizzes.Results(ctx, "user_1", quiz.ID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if results.Score != 0 || results.TotalQuestions != 2 || results.Percentage != 0 {
		t.Fatalf("results should reflect last grading: %+v", results)
	}
	if len(results.Responses) != 2 || results.Responses[0].SelectedAnswer != "London" {
		t.Fatalf("unexpected stored responses: %+v", results.Responses)
	}
	if results.GradedAt == nil {
		t.Fatalf("graded_at must be set")
	}

	stored, err := svc.Quizzes.Get(ctx, "user_1", quiz.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Version != 2 {
		t.Fatalf("version should advance on every grade, got %d", stored.Version)
	}
	if stored.Score == nil || *stored.Score < 0 || *stored.Score > *stored.TotalQuestions {
		t.Fatalf("score out of range: %+v", stored)
	}
}

func TestGradeStaleVersionConflicts(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{quiz: twoQuestionQuiz})
	ctx := context.Background()
	quiz, questions := seedQuiz(t, svc, "user_1")

	answers := []SubmittedAnswer{{QuestionID: questions[0].ID, SelectedAnswer: optionID(t, questions[0], "Paris")}}
	readVersion := quiz.Version

	if _, err := svc.Quizzes.Grade(ctx, "user_1", GradeInput{QuizID: quiz.ID, Responses: answers, Version: &readVersion}); err != nil {
		t.Fatalf("first grade: %v", err)
	}
	wrong := []SubmittedAnswer{{QuestionID: questions[0].ID, SelectedAnswer: optionID(t, questions[0], "London")}}
	_, err := svc.Quizzes.Grade(ctx, "user_1", GradeInput{QuizID: quiz.ID, Responses: wrong, Version: &readVersion})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	stored, err := svc.Quizzes.Get(ctx, "user_1", quiz.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Score == nil || *stored.Score != 1 || stored.Version != 1 {
		t.Fatalf("stale write must not change the row: %+v", stored)
	}
}

func TestGradeRejectsInvalidInputAndForeignQuiz(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{quiz: twoQuestionQuiz})
	ctx := context.Background()
	quiz, questions := seedQuiz(t, svc, "owner")

	if _, err := svc.Quizzes.Grade(ctx, "owner", GradeInput{QuizID: quiz.ID}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty responses, got %v", err)
	}

	answers := []SubmittedAnswer{{QuestionID: questions[0].ID, SelectedAnswer: questions[0].Options[0].ID}}
	if _, err := svc.Quizzes.Grade(ctx, "owner", GradeInput{QuizID: "missing", Responses: answers}); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if _, err := svc.Quizzes.Grade(ctx, "intruder", GradeInput{QuizID: quiz.ID, Responses: answers}); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound for non-owner, got %v", err)
	}
}

func TestResultsBeforeGrading(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{quiz: twoQuestionQuiz})
	quiz, _ := seedQuiz(t, svc, "user_1")

	if _, err := svc.Quizzes.Results(context.Background(), "user_1", quiz.ID); !errors.Is(err, ErrNotGraded) {
		t.Fatalf("expected ErrNotGraded, got %v", err)
	}
}

func TestGenerateWithoutJournal(t *testing.T) {
	svc, db := newTestServices(t, &fakeGenerator{quiz: twoQuestionQuiz})

	quiz, err := svc.Quizzes.Generate(context.Background(), "https://example.com/a.pdf", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if quiz.Title != "Generated Quiz" || len(quiz.Questions) != 2 || quiz.ID == "" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if n := countRows(t, db, &models.Quiz{}); n != 0 {
		t.Fatalf("stateless generation must not persist, got %d rows", n)
	}
}

func TestCreateForJournalAndDelete(t *testing.T) {
	svc, db := newTestServices(t, &fakeGenerator{quiz: twoQuestionQuiz})
	ctx := context.Background()
	quiz, _ := seedQuiz(t, svc, "user_1")

	if _, _, err := svc.Quizzes.CreateForJournal(ctx, "intruder", quiz.JournalID, "https://example.com/a.pdf"); !errors.Is(err, ErrJournalNotFound) {
		t.Fatalf("expected ErrJournalNotFound, got %v", err)
	}

	extra, journal, err := svc.Quizzes.CreateForJournal(ctx, "user_1", quiz.JournalID, "https://example.com/a.pdf")
	if err != nil {
		t.Fatalf("CreateForJournal: %v", err)
	}
	if journal.ID != quiz.JournalID || extra.JournalID != quiz.JournalID {
		t.Fatalf("quiz attached to wrong journal")
	}
	if n := countRows(t, db, &models.Quiz{}); n != 2 {
		t.Fatalf("expected 2 quizzes, got %d", n)
	}

	journalID, err := svc.Quizzes.Delete(ctx, "user_1", extra.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if journalID != quiz.JournalID {
		t.Fatalf("Delete should return the journal id")
	}
	if n := countRows(t, db, &models.Quiz{}); n != 1 {
		t.Fatalf("expected 1 quiz after delete, got %d", n)
	}
}
