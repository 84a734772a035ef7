package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuizQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []QuizOption `json:"options"`
	Correct string       `json:"correct"` // text của đáp án đúng
}

// QuizResponse là câu trả lời đã chấm của 1 câu hỏi
type QuizResponse struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"` // text của lựa chọn, rỗng nếu không khớp
	IsCorrect      bool   `json:"isCorrect"`
}

// Quiz chưa chấm thì UserID, Score, TotalQuestions, Responses đều nil.
// Sau khi chấm cả 4 trường được set cùng lúc.
type Quiz struct {
	ID        string         `gorm:"type:varchar(256);primaryKey" json:"id"`
	JournalID string         `gorm:"type:varchar(256);not null;index:quiz_journal_idx" json:"journal_id"`
	Questions datatypes.JSON `gorm:"not null" json:"questions"`

	UserID         *string        `gorm:"type:varchar(256)" json:"user_id,omitempty"`
	Score          *int           `json:"score,omitempty"`
	TotalQuestions *int           `json:"total_questions,omitempty"`
	Responses      datatypes.JSON `json:"responses,omitempty"`

	Version   int        `gorm:"not null;default:0" json:"version"`
	GradedAt  *time.Time `json:"graded_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

func (q *Quiz) IsGraded() bool {
	return q.Score != nil && q.TotalQuestions != nil && len(q.Responses) > 0
}

func (q *Quiz) SetQuestions(questions []QuizQuestion) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.Questions = datatypes.JSON(raw)
	return nil
}

// DecodeQuestions đọc cột questions, chấp nhận cả JSON array lẫn JSON string chứa array
func (q *Quiz) DecodeQuestions() ([]QuizQuestion, error) {
	var out []QuizQuestion
	if err := decodeJSONList(q.Questions, &out); err != nil {
		return nil, fmt.Errorf("decode questions of quiz %s: %w", q.ID, err)
	}
	return out, nil
}

func (q *Quiz) DecodeResponses() ([]QuizResponse, error) {
	var out []QuizResponse
	if err := decodeJSONList(q.Responses, &out); err != nil {
		return nil, fmt.Errorf("decode responses of quiz %s: %w", q.ID, err)
	}
	return out, nil
}

func decodeJSONList(raw []byte, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err == nil {
		return nil
	}
	// Dữ liệu cũ có thể bị lưu thành chuỗi JSON
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return err
	}
	if inner == "" {
		return nil
	}
	return json.Unmarshal([]byte(inner), dst)
}
