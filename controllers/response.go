package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-learning-journal/services"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

func getServices(c *gin.Context) *services.Services {
	return c.MustGet("services").(*services.Services)
}

// currentUserID trả về user id do AuthMiddleware gắn, rỗng nếu anonymous
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// toAppError gắn status cho lỗi nghiệp vụ, lỗi lạ thành 500 "internal"
func toAppError(err error) *utils.AppError {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidPDF), errors.Is(err, utils.ErrUnsupportedFile):
		return utils.NewAppError(http.StatusBadRequest, "validation", err)
	case errors.Is(err, services.ErrJournalNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrFlashcardNotFound),
		errors.Is(err, services.ErrNotGraded),
		errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NewAppError(http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrConflict):
		return utils.NewAppError(http.StatusConflict, "conflict", err)
	case errors.Is(err, services.ErrGeneration):
		return utils.NewAppError(http.StatusInternalServerError, "generation", err)
	default:
		return utils.NewAppError(http.StatusInternalServerError, "internal", err)
	}
}

// respondError trả {"error": message}, không lộ code ra client
func respondError(c *gin.Context, err error) {
	appErr := toAppError(err)
	status := utils.StatusOf(appErr)
	msg := appErr.Error()

	switch appErr.Code {
	case "generation":
		utils.Log.Warn("generation failed", "path", c.FullPath(), "error", err)
	case "internal":
		utils.Log.Error("request failed", "path", c.FullPath(), "error", err)
		msg = "Internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
