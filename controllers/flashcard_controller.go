package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/journals/:id/flashcards
func GenerateFlashcards(c *gin.Context) {
	svc := getServices(c)
	cards, err := svc.Flashcards.Generate(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Tạo flashcards thành công",
		"flashcards": cards,
	})
}

// GET /api/journals/:id/flashcards
func GetFlashcards(c *gin.Context) {
	svc := getServices(c)
	cards, err := svc.Flashcards.List(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flashcards": cards})
}

// PATCH /api/flashcards/:id/review
func ReviewFlashcard(c *gin.Context) {
	svc := getServices(c)
	card, err := svc.Flashcards.MarkReviewed(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
