package controllers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-learning-journal/utils"
)

const devTokenTTL = 24 * time.Hour

// POST /api/dev/token
// Chỉ dùng ở local: cấp session token cho userId khi chưa nối identity provider. Production trả 404.
func IssueDevToken(c *gin.Context) {
	if env := strings.ToLower(os.Getenv("APP_ENV")); env == "prod" || env == "production" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	userID := strings.TrimSpace(c.PostForm("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	token, err := utils.GenerateToken(userID, devTokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": userID})
}
