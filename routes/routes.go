package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-learning-journal/controllers"
	"github.com/vnkhanh/ai-learning-journal/middleware"
	"github.com/vnkhanh/ai-learning-journal/services"
	"github.com/vnkhanh/ai-learning-journal/utils"
	"github.com/vnkhanh/ai-learning-journal/ws"
)

// SetupRouter đăng ký route. store có thể nil khi chưa cấu hình Supabase.
func SetupRouter(r *gin.Engine, db *gorm.DB, svc *services.Services, store utils.ObjectStorage) *gin.Engine {
	r.Use(
		middleware.DBMiddleware(db),
		middleware.ServicesMiddleware(svc),
		middleware.StorageMiddleware(store),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	// Webhook từ identity provider, xác thực bằng chữ ký svix
	api.POST("/webhooks", controllers.HandleWebhook)

	// Token dev, tắt khi APP_ENV=production
	api.POST("/dev/token", controllers.IssueDevToken)

	// Sinh quiz: không có journalId thì không cần đăng nhập
	api.POST("/quiz", middleware.OptionalAuthMiddleware(), controllers.GenerateQuiz)

	user := api.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		user.POST("/uploads/pdf", controllers.UploadPDF)

		// Journal
		user.POST("/journals", controllers.CreateJournal)
		user.GET("/journals", controllers.GetJournals)
		user.GET("/journals/:id", controllers.GetJournalDetail)
		user.DELETE("/journals/:id", controllers.DeleteJournal)

		// Quiz
		user.GET("/quizzes/:id", controllers.GetQuiz)
		user.GET("/quizzes/:id/results", controllers.GetQuizResults)
		user.DELETE("/quizzes/:id", controllers.DeleteQuiz)
		user.POST("/quizzes/submit", controllers.SubmitQuiz)

		// Flashcard
		user.POST("/journals/:id/flashcards", controllers.GenerateFlashcards)
		user.GET("/journals/:id/flashcards", controllers.GetFlashcards)
		user.PATCH("/flashcards/:id/review", controllers.ReviewFlashcard)
	}

	r.GET("/ws/journals", ws.HandleJournalWebSocket)

	return r
}
