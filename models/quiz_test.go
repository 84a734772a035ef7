package models

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
)

func TestDecodeQuestionsAcceptsArrayOrString(t *testing.T) {
	questions := []QuizQuestion{{
		ID:      "q1",
		Text:    "Capital of France?",
		Options: []QuizOption{{ID: "o1", Text: "Paris"}},
		Correct: "Paris",
	}}
	arr, _ := json.Marshal(questions)
	str, _ := json.Marshal(string(arr))

	for name, raw := range map[string][]byte{"array": arr, "string": str} {
		t.Run(name, func(t *testing.T) {
			q := Quiz{ID: "quiz", Questions: datatypes.JSON(raw)}
			got, err := q.DecodeQuestions()
			if err != nil {
				t.Fatalf("DecodeQuestions: %v", err)
			}
			if len(got) != 1 || got[0].Options[0].Text != "Paris" {
				t.Fatalf("unexpected questions: %+v", got)
			}
		})
	}
}

func TestIsGraded(t *testing.T) {
	q := Quiz{}
	if q.IsGraded() {
		t.Fatalf("empty quiz must not be graded")
	}
	score, total := 1, 5
	q.Score, q.TotalQuestions = &score, &total
	q.Responses = datatypes.JSON(`[{"questionId":"q1","selectedAnswer":"Paris","isCorrect":true}]`)
	if !q.IsGraded() {
		t.Fatalf("quiz with score, total and responses is graded")
	}
	responses, err := q.DecodeResponses()
	if err != nil || len(responses) != 1 || !responses[0].IsCorrect {
		t.Fatalf("unexpected responses: %+v err=%v", responses, err)
	}
}
