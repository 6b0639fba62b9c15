package repository

import (
	"context"

	"iaprender_backend/internal/model"

	"gorm.io/gorm"
)

// ChatRepository stores the per-user tutor transcript.
type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Append(ctx context.Context, msg *model.ChatMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// History returns the user's messages oldest first; equal timestamps keep
// insertion order.
func (r *ChatRepository) History(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}
