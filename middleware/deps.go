package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-learning-journal/services"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

func ServicesMiddleware(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("services", svc)
		c.Next()
	}
}

// StorageMiddleware gắn object storage, có thể nil khi chưa cấu hình Supabase
func StorageMiddleware(store utils.ObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store != nil {
			c.Set("storage", store)
		}
		c.Next()
	}
}
