package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-learning-journal/models"
	"github.com/vnkhanh/ai-learning-journal/services"
	"github.com/vnkhanh/ai-learning-journal/ws"
)

// POST /api/quiz
// Không có journalId: chỉ sinh quiz và trả về. Có journalId: cần đăng nhập, lưu quiz vào journal.
func GenerateQuiz(c *gin.Context) {
	svc := getServices(c)

	fileURL := strings.TrimSpace(c.PostForm("fileUrl"))
	if fileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileUrl is required"})
		return
	}
	journalID := strings.TrimSpace(c.PostForm("journalId"))

	if journalID == "" {
		quiz, err := svc.Quizzes.Generate(c.Request.Context(), fileURL, c.PostForm("title"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, quiz)
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quiz, journal, err := svc.Quizzes.CreateForJournal(c.Request.Context(), userID, journalID, fileURL)
	if err != nil {
		respondError(c, err)
		return
	}
	questions, err := quiz.DecodeQuestions()
	if err != nil {
		respondError(c, err)
		return
	}

	ws.BroadcastJournalListChanged(userID, journal.ID)
	c.JSON(http.StatusOK, services.GeneratedQuiz{
		ID:        quiz.ID,
		Title:     journal.Title,
		Questions: questions,
	})
}

// quizView ẩn đáp án đúng khi quiz chưa được chấm
type quizView struct {
	ID             string                `json:"id"`
	JournalID      string                `json:"journal_id"`
	Questions      []models.QuizQuestion `json:"questions"`
	Graded         bool                  `json:"graded"`
	Score          *int                  `json:"score,omitempty"`
	TotalQuestions *int                  `json:"total_questions,omitempty"`
	Version        int                   `json:"version"`
}

func toQuizView(quiz *models.Quiz, questions []models.QuizQuestion) quizView {
	graded := quiz.IsGraded()
	if !graded {
		hidden := make([]models.QuizQuestion, len(questions))
		for i, q := range questions {
			q.Correct = ""
			hidden[i] = q
		}
		questions = hidden
	}
	return quizView{
		ID:             quiz.ID,
		JournalID:      quiz.JournalID,
		Questions:      questions,
		Graded:         graded,
		Score:          quiz.Score,
		TotalQuestions: quiz.TotalQuestions,
		Version:        quiz.Version,
	}
}

// GET /api/quizzes/:id
func GetQuiz(c *gin.Context) {
	svc := getServices(c)
	quiz, err := svc.Quizzes.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	questions, err := quiz.DecodeQuestions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuizView(quiz, questions))
}

// POST /api/quizzes/submit
// Form: quizId, responses (JSON [{questionId, selectedAnswer}]), version (tuỳ chọn)
func SubmitQuiz(c *gin.Context) {
	svc := getServices(c)
	userID := currentUserID(c)

	quizID := strings.TrimSpace(c.PostForm("quizId"))
	rawResponses := c.PostForm("responses")
	if quizID == "" || rawResponses == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quizId or responses data"})
		return
	}

	var responses []services.SubmittedAnswer
	if err := json.Unmarshal([]byte(rawResponses), &responses); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quizId or responses data"})
		return
	}

	input := services.GradeInput{QuizID: quizID, Responses: responses}
	if v := strings.TrimSpace(c.PostForm("version")); v != "" {
		version, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "version must be a number"})
			return
		}
		input.Version = &version
	}

	result, err := svc.Quizzes.Grade(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	ws.BroadcastQuizGraded(userID, result.JournalID, quizID)
	c.JSON(http.StatusOK, gin.H{
		"success":        result.Success,
		"score":          result.Score,
		"totalQuestions": result.TotalQuestions,
	})
}

// GET /api/quizzes/:id/results
func GetQuizResults(c *gin.Context) {
	svc := getServices(c)
	results, err := svc.Quizzes.Results(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// DELETE /api/quizzes/:id
func DeleteQuiz(c *gin.Context) {
	svc := getServices(c)
	userID := currentUserID(c)
	journalID, err := svc.Quizzes.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ws.BroadcastJournalListChanged(userID, journalID)
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}
