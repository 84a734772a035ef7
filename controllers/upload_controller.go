package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-learning-journal/services"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

func getStorage(c *gin.Context) utils.ObjectStorage {
	v, ok := c.Get("storage")
	if !ok {
		return nil
	}
	store, _ := v.(utils.ObjectStorage)
	return store
}

// POST /api/uploads/pdf
func UploadPDF(c *gin.Context) {
	store := getStorage(c)
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage is not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file đính kèm"})
		return
	}
	if file.Size > utils.MaxPDFSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File vượt quá 16MB"})
		return
	}
	if err := utils.CheckPDFUpload(file.Filename, file.Header.Get("Content-Type")); err != nil {
		respondError(c, err)
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, utils.MaxPDFSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}
	if len(data) > utils.MaxPDFSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File vượt quá 16MB"})
		return
	}

	pages, err := services.InspectPDF(data)
	if err != nil {
		respondError(c, err)
		return
	}

	key := utils.ObjectKey(currentUserID(c), file.Filename)
	url, err := store.Upload(key, "application/pdf", data)
	if err != nil {
		utils.Log.Error("upload pdf failed", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload file"})
		return
	}

	utils.Log.Info("pdf uploaded", "key", key, "size", len(data), "pages", pages)
	c.JSON(http.StatusOK, utils.UploadedFile{
		URL:  url,
		Key:  key,
		Name: file.Filename,
		Size: int64(len(data)),
	})
}
