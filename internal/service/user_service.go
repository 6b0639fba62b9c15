package service

import (
	"context"
	"errors"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StudentDetail is the teacher's view of one student.
type StudentDetail struct {
	Student     model.User             `json:"student"`
	Progress    *model.UserProgress    `json:"progress"`
	ModuleScore int                    `json:"moduleScore"`
	Submissions []model.TaskSubmission `json:"submissions"`
}

type UserService struct {
	UserRepo       *repository.UserRepository
	ProgressRepo   *repository.ProgressRepository
	SubmissionRepo *repository.SubmissionRepository
	Cache          *repository.RedisStore
	Catalog        *CatalogService
	OverviewTTL    time.Duration
	Aggregation    AggregationView
}

func NewUserService(
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	submissionRepo *repository.SubmissionRepository,
	cache *repository.RedisStore,
	catalog *CatalogService,
	overviewTTL time.Duration,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		ProgressRepo:   progressRepo,
		SubmissionRepo: submissionRepo,
		Cache:          cache,
		Catalog:        catalog,
		OverviewTTL:    overviewTTL,
	}
}

func (s *UserService) Profile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListStudentsWithProgress pairs every student with their progress record;
// students that never played get an empty one.
func (s *UserService) ListStudentsWithProgress(ctx context.Context) ([]model.StudentProgress, error) {
	students, err := s.UserRepo.FindByRole(ctx, model.Student)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	progress, err := s.ProgressRepo.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.StudentProgress, 0, len(students))
	for _, st := range students {
		p, ok := progress[st.ID]
		if !ok {
			p = model.NewUserProgress(st.ID)
		}
		out = append(out, model.StudentProgress{Student: st, Progress: p})
	}
	return out, nil
}

func (s *UserService) StudentDetail(ctx context.Context, studentID uint) (*StudentDetail, error) {
	user, err := s.Profile(studentID)
	if err != nil {
		return nil, err
	}
	if user.Role != model.Student {
		return nil, util.ErrUserNotFound
	}
	p, err := s.ProgressRepo.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	subs, err := s.SubmissionRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}
	return &StudentDetail{
		Student:     *user,
		Progress:    p,
		ModuleScore: p.ModuleScoreTotal(),
		Submissions: subs,
	}, nil
}

// Overview computes the teacher dashboard, served from redis while fresh.
func (s *UserService) Overview(ctx context.Context) (*Overview, error) {
	var cached Overview
	hit, err := s.Cache.GetJSON(ctx, OverviewCacheKey, &cached)
	if err != nil {
		logger.Log.Warn("Failed to read overview cache", zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	students, err := s.ListStudentsWithProgress(ctx)
	if err != nil {
		return nil, err
	}
	o := s.Aggregation.Overview(students, s.Catalog.Content.Modules, DefaultLeaderboardSize)

	if s.OverviewTTL > 0 {
		if err := s.Cache.SetJSON(ctx, OverviewCacheKey, o, s.OverviewTTL); err != nil {
			logger.Log.Warn("Failed to cache overview", zap.Error(err))
		}
	}
	return &o, nil
}

// UpdateRole is the administrative role change.
func (s *UserService) UpdateRole(ctx context.Context, userID uint, role model.UserRole) error {
	if !role.Valid() {
		return util.ErrInvalidRole
	}
	n, err := s.UserRepo.UpdateRole(userID, role)
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero rows when the role is unchanged
		_, err := s.Profile(userID)
		return err
	}
	invalidateOverview(ctx, s.Cache)
	return nil
}
