package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-learning-journal/models"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

// SubmittedAnswer là câu trả lời client gửi lên: id câu hỏi + id lựa chọn
type SubmittedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

type GradeInput struct {
	QuizID    string
	Responses []SubmittedAnswer
	// Version client đã đọc; nil thì dùng version hiện tại trong DB
	Version *int
}

type GradeResult struct {
	Success        bool                  `json:"success"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	Responses      []models.QuizResponse `json:"responses,omitempty"`
	JournalID      string                `json:"-"`
}

// GeneratedQuiz là kết quả sinh quiz chưa lưu DB
type GeneratedQuiz struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Questions []models.QuizQuestion `json:"questions"`
}

type QuizService struct {
	db    *gorm.DB
	gen   Generator
	retry utils.RetryPolicy
}

func NewQuizService(db *gorm.DB, gen Generator, retry utils.RetryPolicy) *QuizService {
	return &QuizService{db: db, gen: gen, retry: retry}
}

// GenerateQuestions: tải PDF -> Gemini -> parse -> bỏ câu có đáp án không khớp lựa chọn
func (s *QuizService) GenerateQuestions(ctx context.Context, fileURL string) ([]models.QuizQuestion, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("%w: generator is not configured", ErrGeneration)
	}
	raw, err := s.gen.QuizText(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	questions, err := ParseQuiz(raw)
	if err != nil {
		utils.Log.Warn("quiz parse produced no questions", "file_url", fileURL, "raw_len", len(raw))
		return nil, err
	}
	kept, dropped := FilterAnswerable(questions)
	if dropped > 0 {
		utils.Log.Warn("dropped questions whose correct answer is not an option", "dropped", dropped, "kept", len(kept))
	}
	if len(kept) == 0 {
		return nil, ErrNoQuestions
	}
	return kept, nil
}

// Generate sinh quiz không lưu DB (POST /api/quiz không có journalId)
func (s *QuizService) Generate(ctx context.Context, fileURL, title string) (*GeneratedQuiz, error) {
	questions, err := s.GenerateQuestions(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = "Generated Quiz"
	}
	return &GeneratedQuiz{ID: uuid.NewString(), Title: title, Questions: questions}, nil
}

// CreateForJournal sinh quiz mới và gắn vào journal của user
func (s *QuizService) CreateForJournal(ctx context.Context, userID, journalID, fileURL string) (*models.Quiz, *models.Journal, error) {
	journal, err := findOwnedJournal(s.db.WithContext(ctx), userID, journalID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.GenerateQuestions(ctx, fileURL)
	if err != nil {
		return nil, nil, err
	}

	quiz := models.Quiz{ID: uuid.NewString(), JournalID: journal.ID}
	if err := quiz.SetQuestions(questions); err != nil {
		return nil, nil, err
	}
	err = s.retry.Retry(ctx, "create quiz", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&quiz).Error; err != nil {
				return err
			}
			return tx.Model(&models.Journal{}).Where("id = ?", journal.ID).
				Update("last_modified", time.Now()).Error
		})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("không thể lưu quiz: %w", err)
	}
	return &quiz, journal, nil
}

// Get lấy quiz thuộc journal của user
func (s *QuizService) Get(ctx context.Context, userID, quizID string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Joins("JOIN journals ON journals.id = quizzes.journal_id").
		Where("quizzes.id = ? AND journals.user_id = ?", quizID, userID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// Grade chấm bài và ghi đè kết quả cũ (nộp lại cùng đáp án cho cùng điểm)
func (s *QuizService) Grade(ctx context.Context, userID string, in GradeInput) (*GradeResult, error) {
	if in.QuizID == "" || len(in.Responses) == 0 {
		return nil, validationError("invalid quizId or responses data")
	}

	quiz, err := s.Get(ctx, userID, in.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := quiz.DecodeQuestions()
	if err != nil {
		return nil, err
	}

	score, responses, invalid := GradeQuiz(questions, in.Responses)
	if len(invalid) > 0 {
		utils.Log.Warn("invalid response ids detected", "quiz_id", quiz.ID, "invalid", invalid)
	}

	raw, err := json.Marshal(responses)
	if err != nil {
		return nil, err
	}
	expected := quiz.Version
	if in.Version != nil {
		expected = *in.Version
	}
	total := len(questions)
	now := time.Now()

	err = s.retry.Retry(ctx, "grade quiz", func(ctx context.Context) error {
		res := s.db.WithContext(ctx).Model(&models.Quiz{}).
			Where("id = ? AND version = ?", quiz.ID, expected).
			Updates(map[string]interface{}{
				"user_id":         userID,
				"score":           score,
				"total_questions": total,
				"responses":       datatypes.JSON(raw),
				"graded_at":       now,
				"version":         gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.Permanent(ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.Log.Info("quiz graded", "quiz_id", quiz.ID, "score", score, "total", total)

	return &GradeResult{
		Success:        true,
		Score:          score,
		TotalQuestions: total,
		Responses:      responses,
		JournalID:      quiz.JournalID,
	}, nil
}

// GradeQuiz là phần chấm điểm thuần: mỗi câu hỏi của quiz có đúng 1 response,
// câu không trả lời hoặc id lựa chọn lạ được tính là sai với selectedAnswer rỗng.
// invalid chứa các câu trả lời có questionId không thuộc quiz.
func GradeQuiz(questions []models.QuizQuestion, submitted []SubmittedAnswer) (score int, responses []models.QuizResponse, invalid []SubmittedAnswer) {
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	answers := make(map[string]string, len(submitted))
	for _, a := range submitted {
		if !known[a.QuestionID] {
			invalid = append(invalid, a)
			continue
		}
		if _, seen := answers[a.QuestionID]; !seen {
			answers[a.QuestionID] = a.SelectedAnswer
		}
	}

	responses = make([]models.QuizResponse, 0, len(questions))
	for _, q := range questions {
		selectedText := ""
		if optionID, ok := answers[q.ID]; ok {
			for _, opt := range q.Options {
				if opt.ID == optionID {
					selectedText = opt.Text
					break
				}
			}
		}
		isCorrect := selectedText != "" && equalFoldTrim(selectedText, q.Correct)
		if isCorrect {
			score++
		}
		responses = append(responses, models.QuizResponse{
			QuestionID:     q.ID,
			SelectedAnswer: selectedText,
			IsCorrect:      isCorrect,
		})
	}
	return score, responses, invalid
}

// QuizResults là dữ liệu trang kết quả
type QuizResults struct {
	QuizID         string                `json:"quizId"`
	JournalID      string                `json:"journalId"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	Percentage     float64               `json:"percentage"`
	Questions      []models.QuizQuestion `json:"questions"`
	Responses      []models.QuizResponse `json:"responses"`
	GradedAt       *time.Time            `json:"gradedAt,omitempty"`
}

// Results chỉ trả khi quiz đã được chính user này làm
func (s *QuizService) Results(ctx context.Context, userID, quizID string) (*QuizResults, error) {
	quiz, err := s.Get(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsGraded() || quiz.UserID == nil || *quiz.UserID != userID {
		return nil, ErrNotGraded
	}
	questions, err := quiz.DecodeQuestions()
	if err != nil {
		return nil, err
	}
	responses, err := quiz.DecodeResponses()
	if err != nil {
		return nil, err
	}

	out := &QuizResults{
		QuizID:         quiz.ID,
		JournalID:      quiz.JournalID,
		Score:          *quiz.Score,
		TotalQuestions: *quiz.TotalQuestions,
		Questions:      questions,
		Responses:      responses,
		GradedAt:       quiz.GradedAt,
	}
	if out.TotalQuestions > 0 {
		out.Percentage = float64(out.Score) / float64(out.TotalQuestions) * 100
	}
	return out, nil
}

// Delete xoá quiz (không soft delete), trả về journal id để báo client cập nhật
func (s *QuizService) Delete(ctx context.Context, userID, quizID string) (string, error) {
	quiz, err := s.Get(ctx, userID, quizID)
	if err != nil {
		return "", err
	}
	err = s.retry.Retry(ctx, "delete quiz", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Delete(&models.Quiz{}, "id = ?", quiz.ID).Error
	})
	if err != nil {
		return "", err
	}
	return quiz.JournalID, nil
}
