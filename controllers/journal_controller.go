package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-learning-journal/services"
	"github.com/vnkhanh/ai-learning-journal/utils"
	"github.com/vnkhanh/ai-learning-journal/ws"
)

// POST /api/journals
// Form: title, description, fileUrl, fileKey, fileName, fileSize (metadata trả về từ /api/uploads/pdf)
func CreateJournal(c *gin.Context) {
	svc := getServices(c)
	userID := currentUserID(c)

	input := services.CreateJournalInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		FileURL:     strings.TrimSpace(c.PostForm("fileUrl")),
		FileKey:     strings.TrimSpace(c.PostForm("fileKey")),
		FileName:    strings.TrimSpace(c.PostForm("fileName")),
	}
	if rawSize := strings.TrimSpace(c.PostForm("fileSize")); rawSize != "" {
		size, err := strconv.ParseInt(rawSize, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fileSize must be a number"})
			return
		}
		input.FileSize = size
	}

	journal, err := svc.Journals.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	ws.BroadcastJournalListChanged(userID, journal.ID)
	c.Redirect(http.StatusSeeOther, "/journal/"+journal.ID)
}

// GET /api/journals
func GetJournals(c *gin.Context) {
	svc := getServices(c)
	journals, err := svc.Journals.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  journals,
		"total": len(journals),
	})
}

// GET /api/journals/:id
func GetJournalDetail(c *gin.Context) {
	svc := getServices(c)
	journal, err := svc.Journals.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	quizzes := make([]quizView, 0, len(journal.Quizzes))
	for i := range journal.Quizzes {
		questions, err := journal.Quizzes[i].DecodeQuestions()
		if err != nil {
			respondError(c, err)
			return
		}
		quizzes = append(quizzes, toQuizView(&journal.Quizzes[i], questions))
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            journal.ID,
		"title":         journal.Title,
		"description":   journal.Description,
		"last_modified": journal.LastModified,
		"created_at":    journal.CreatedAt,
		"document":      journal.Document,
		"quizzes":       quizzes,
		"flashcards":    journal.Flashcards,
	})
}

// DELETE /api/journals/:id
func DeleteJournal(c *gin.Context) {
	svc := getServices(c)
	userID := currentUserID(c)
	journalID := c.Param("id")

	doc, err := svc.Journals.Delete(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Dữ liệu đã xoá, lỗi storage chỉ ghi log
	if store := getStorage(c); store != nil && doc != nil && doc.Key != "" {
		if err := store.Remove(doc.Key); err != nil {
			utils.Log.Warn("remove journal file failed", "journal_id", journalID, "key", doc.Key, "error", err)
		}
	}

	ws.BroadcastJournalListChanged(userID, journalID)
	c.JSON(http.StatusOK, gin.H{"message": "Journal deleted"})
}
