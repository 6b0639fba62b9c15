package repository

import (
	"context"

	"iaprender_backend/internal/model"

	"gorm.io/gorm"
)

type SupportRepository struct {
	DB *gorm.DB
}

func NewSupportRepository(db *gorm.DB) *SupportRepository {
	return &SupportRepository{DB: db}
}

func (r *SupportRepository) Create(ctx context.Context, s *model.EmotionalSupportSession) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *SupportRepository) FindByUser(ctx context.Context, userID uint) ([]model.EmotionalSupportSession, error) {
	var out []model.EmotionalSupportSession
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}
