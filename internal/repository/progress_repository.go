package repository

import (
	"context"
	"errors"
	"fmt"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB         *gorm.DB
	MaxRetries int
}

func NewProgressRepository(db *gorm.DB, maxRetries int) *ProgressRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ProgressRepository{DB: db, MaxRetries: maxRetries}
}

// Get returns the stored progress for userID, or an empty record when the
// user has none yet.
func (r *ProgressRepository) Get(ctx context.Context, userID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewUserProgress(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByUserIDs loads the progress rows of the given users keyed by user id.
// Users without a row are absent from the map.
func (r *ProgressRepository) FindByUserIDs(ctx context.Context, userIDs []uint) (map[uint]*model.UserProgress, error) {
	out := make(map[uint]*model.UserProgress, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []model.UserProgress
	if err := r.DB.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].UserID] = &rows[i]
	}
	return out, nil
}

// loadOrCreate reads the row for userID, inserting the empty record first
// when absent.
func (r *ProgressRepository) loadOrCreate(ctx context.Context, userID uint) (*model.UserProgress, error) {
	db := r.DB.WithContext(ctx)
	empty := model.NewUserProgress(userID)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(empty).Error; err != nil {
		return nil, err
	}
	var p model.UserProgress
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// RunTransaction applies fn to the current progress of userID as an
// optimistic read-modify-write. The write only lands if no other writer bumped
// the version in between; otherwise the whole cycle, fn included, is retried
// up to MaxRetries more times before util.ErrConflict is returned.
func (r *ProgressRepository) RunTransaction(ctx context.Context, userID uint, fn func(p *model.UserProgress) error) (*model.UserProgress, error) {
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := r.loadOrCreate(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		readVersion := p.Version

		if err := fn(p); err != nil {
			return nil, err
		}
		p.Version = readVersion + 1

		res := r.DB.WithContext(ctx).
			Model(&model.UserProgress{}).
			Where("user_id = ? AND version = ?", userID, readVersion).
			Updates(map[string]interface{}{
				"completed_games": p.CompletedGames,
				"total_score":     p.TotalScore,
				"last_played":     p.LastPlayed,
				"modules":         p.Modules,
				"version":         p.Version,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("write progress: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			return p, nil
		}
	}
	return nil, util.ErrConflict
}

// MergeModule stores result under moduleID without version checks: the last
// writer wins. The version is still bumped so that a concurrent
// RunTransaction notices the write.
func (r *ProgressRepository) MergeModule(ctx context.Context, userID uint, moduleID string, result model.ModuleResult) (*model.UserProgress, error) {
	p, err := r.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	p.SetModule(moduleID, result)

	err = r.DB.WithContext(ctx).
		Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"modules": p.Modules,
			"version": gorm.Expr("version + 1"),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("write progress: %w", err)
	}
	p.Version++
	return p, nil
}
