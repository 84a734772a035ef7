package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/ai-learning-journal/models"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

type UserService struct {
	db    *gorm.DB
	retry utils.RetryPolicy
}

func NewUserService(db *gorm.DB, retry utils.RetryPolicy) *UserService {
	return &UserService{db: db, retry: retry}
}

// Upsert ghi đè thông tin user theo user_id (sự kiện user.created / user.updated)
func (s *UserService) Upsert(ctx context.Context, user models.User) error {
	return s.retry.Retry(ctx, "upsert user", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "profile_image_url"}),
		}).Create(&user).Error
	})
}

// Touch cập nhật last_seen_at khi có session mới hoặc kết thúc
func (s *UserService) Touch(ctx context.Context, userID string) error {
	now := time.Now()
	return s.retry.Retry(ctx, "touch user", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Model(&models.User{}).
			Where("user_id = ?", userID).
			Update("last_seen_at", now).Error
	})
}
