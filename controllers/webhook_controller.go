package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/vnkhanh/ai-learning-journal/models"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

var validate = validator.New()

type webhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type webhookUserData struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

type webhookSessionData struct {
	UserID string `json:"user_id"`
}

// syncedUser là dữ liệu user sau khi lấy từ payload, validate trước khi upsert
type syncedUser struct {
	UserID          string `validate:"required,max=256"`
	Username        string `validate:"omitempty,max=100"`
	Email           string `validate:"required,email,max=256"`
	ProfileImageURL string `validate:"omitempty,url"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// POST /api/webhooks
// Sự kiện từ identity provider, ký bằng svix
func HandleWebhook(c *gin.Context) {
	secret := os.Getenv("CLERK_WEBHOOK_SIGNING_SECRET")
	if secret == "" {
		utils.Log.Error("CLERK_WEBHOOK_SIGNING_SECRET is not set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook is not configured"})
		return
	}

	h := c.Request.Header
	if h.Get("svix-id") == "" || h.Get("svix-timestamp") == "" || h.Get("svix-signature") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Svix headers"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read body"})
		return
	}

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		utils.Log.Error("invalid webhook secret", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook is not configured"})
		return
	}
	if err := wh.Verify(payload, h); err != nil {
		utils.Log.Warn("webhook verification failed", "svix_id", h.Get("svix-id"), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	var evt webhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	utils.Log.Info("webhook received", "type", evt.Type, "svix_id", h.Get("svix-id"))

	svc := getServices(c)
	ctx := c.Request.Context()

	switch evt.Type {
	case "user.created", "user.updated":
		var data webhookUserData
		if err := json.Unmarshal(evt.Data, &data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}
		u := syncedUser{UserID: data.ID, Username: data.Username, ProfileImageURL: data.ImageURL}
		if len(data.EmailAddresses) > 0 {
			u.Email = data.EmailAddresses[0].EmailAddress
		}
		if err := validate.Struct(u); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err := svc.Users.Upsert(ctx, models.User{
			UserID:          u.UserID,
			Username:        optional(u.Username),
			Email:           u.Email,
			ProfileImageURL: optional(u.ProfileImageURL),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Log.Info("user synced", "user_id", u.UserID)

	case "session.created", "session.ended":
		var data webhookSessionData
		if err := json.Unmarshal(evt.Data, &data); err != nil || data.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}
		if err := svc.Users.Touch(ctx, data.UserID); err != nil {
			respondError(c, err)
			return
		}

	default:
		utils.Log.Info("unhandled webhook event", "type", evt.Type)
	}

	c.Status(http.StatusOK)
}
