package service

import (
	"context"
	"errors"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/logger"
	"iaprender_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// OverviewCacheKey holds the cached teacher overview; every progress write
// drops it.
const OverviewCacheKey = "teacher:overview"

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	Cache        *repository.RedisStore
	now          func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepository, cache *repository.RedisStore) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		Cache:        cache,
		now:          time.Now,
	}
}

// MergeGameCompletion records a finished game: gameID joins the completed
// set once, points are added to the total on every call.
func (s *ProgressService) MergeGameCompletion(ctx context.Context, userID uint, gameID string, points int) (model.GameTotals, error) {
	if userID == 0 {
		return model.GameTotals{}, util.ErrNotAuthenticated
	}

	at := s.now()
	p, err := s.ProgressRepo.RunTransaction(ctx, userID, func(p *model.UserProgress) error {
		p.ApplyGameCompletion(gameID, points, at)
		return nil
	})
	if err != nil {
		if errors.Is(err, util.ErrConflict) {
			monitoring.ProgressConflicts.Inc()
			logger.Log.Warn("Game completion gave up after retries",
				zap.Uint("userID", userID),
				zap.String("gameID", gameID))
		}
		return model.GameTotals{}, err
	}

	s.invalidateOverview(ctx)
	return p.Totals(), nil
}

// MergeModuleCompletion stores result under moduleID. Concurrent writers of
// the same module race and the last one wins.
func (s *ProgressService) MergeModuleCompletion(ctx context.Context, userID uint, moduleID string, result model.ModuleResult) error {
	if userID == 0 {
		return util.ErrNotAuthenticated
	}
	if _, err := s.ProgressRepo.MergeModule(ctx, userID, moduleID, result); err != nil {
		return err
	}
	s.invalidateOverview(ctx)
	return nil
}

func (s *ProgressService) GetProgress(ctx context.Context, userID uint) (*model.UserProgress, error) {
	if userID == 0 {
		return nil, util.ErrNotAuthenticated
	}
	return s.ProgressRepo.Get(ctx, userID)
}

func (s *ProgressService) invalidateOverview(ctx context.Context) {
	invalidateOverview(ctx, s.Cache)
}

// invalidateOverview drops the cached teacher overview after any change to
// students or their progress.
func invalidateOverview(ctx context.Context, cache *repository.RedisStore) {
	if err := cache.Delete(ctx, OverviewCacheKey); err != nil {
		logger.Log.Warn("Failed to invalidate overview cache", zap.Error(err))
	}
}
