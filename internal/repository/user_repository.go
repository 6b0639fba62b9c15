package repository

import (
	"context"
	"time"

	"iaprender_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// FindByRole lists users holding role ordered by display name.
func (r *UserRepository) FindByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Where("role = ?", role).
		Order("display_name ASC, id ASC").
		Find(&users).Error
	return users, err
}

// CountByIDsAndRole counts how many of ids belong to users holding role.
func (r *UserRepository) CountByIDsAndRole(ids []uint, role model.UserRole) (int64, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Where("id IN ? AND role = ?", ids, role).Count(&n).Error
	return n, err
}

func (r *UserRepository) UpdateRole(id uint, role model.UserRole) (int64, error) {
	res := r.DB.Model(&model.User{}).Where("id = ?", id).Update("role", role)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

func (r *UserRepository) UpdateLastSeen(id uint, at time.Time) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).UpdateColumn("last_seen_at", at).Error
}
