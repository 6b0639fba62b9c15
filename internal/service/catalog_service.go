package service

import (
	"context"
	"strconv"
	"time"

	"iaprender_backend/internal/content"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/monitoring"
)

// PublicQuestion is a question as shown to a player: no answer key.
type PublicQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type GameSummary struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Difficulty    model.Difficulty `json:"difficulty"`
	Icon          string           `json:"icon,omitempty"`
	QuestionCount int              `json:"questionCount"`
	Questions     []PublicQuestion `json:"questions,omitempty"`
}

type ModuleSummary struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Level         string           `json:"level"`
	EstimatedTime string           `json:"estimatedTime"`
	Topics        []string         `json:"topics"`
	QuestionCount int              `json:"questionCount"`
	Questions     []PublicQuestion `json:"questions,omitempty"`
}

// AnswerReview tells the player how one question went once the attempt is
// scored.
type AnswerReview struct {
	Question    int    `json:"question"`
	Selected    *int   `json:"selected"`
	Correct     int    `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation,omitempty"`
}

type AttemptResult struct {
	Score             model.ScoreResult `json:"score"`
	DisplayPercentage float64           `json:"displayPercentage"`
	Review            []AnswerReview    `json:"review"`
	Totals            *model.GameTotals `json:"totals,omitempty"`
}

// CatalogService serves the built-in games and tech modules and scores
// attempts against them.
type CatalogService struct {
	Content         *content.Content
	ProgressService *ProgressService
	now             func() time.Time
}

func NewCatalogService(c *content.Content, progressService *ProgressService) *CatalogService {
	return &CatalogService{
		Content:         c,
		ProgressService: progressService,
		now:             time.Now,
	}
}

func publicQuestions(qs []model.Question) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, PublicQuestion{Prompt: q.Prompt, Options: q.Options})
	}
	return out
}

func gameSummary(q *model.QuizDefinition, withQuestions bool) GameSummary {
	g := GameSummary{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		Category:      q.Category,
		Difficulty:    q.Difficulty,
		Icon:          q.Icon,
		QuestionCount: len(q.Questions),
	}
	if withQuestions {
		g.Questions = publicQuestions(q.Questions)
	}
	return g
}

func moduleSummary(m *model.TechModule, withQuestions bool) ModuleSummary {
	s := ModuleSummary{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Level:         m.Level,
		EstimatedTime: m.EstimatedTime,
		Topics:        m.Topics,
		QuestionCount: len(m.Questions),
	}
	if withQuestions {
		s.Questions = publicQuestions(m.Questions)
	}
	return s
}

func (s *CatalogService) ListGames() []GameSummary {
	out := make([]GameSummary, 0, len(s.Content.Quizzes))
	for i := range s.Content.Quizzes {
		out = append(out, gameSummary(&s.Content.Quizzes[i], false))
	}
	return out
}

func (s *CatalogService) Game(id string) (*model.QuizDefinition, error) {
	for i := range s.Content.Quizzes {
		if s.Content.Quizzes[i].ID == id {
			return &s.Content.Quizzes[i], nil
		}
	}
	return nil, util.ErrQuizNotFound
}

func (s *CatalogService) GetGame(id string) (*GameSummary, error) {
	q, err := s.Game(id)
	if err != nil {
		return nil, err
	}
	g := gameSummary(q, true)
	return &g, nil
}

func (s *CatalogService) ListModules() []ModuleSummary {
	out := make([]ModuleSummary, 0, len(s.Content.Modules))
	for i := range s.Content.Modules {
		out = append(out, moduleSummary(&s.Content.Modules[i], true))
	}
	return out
}

func (s *CatalogService) Module(id string) (*model.TechModule, error) {
	for i := range s.Content.Modules {
		if s.Content.Modules[i].ID == id {
			return &s.Content.Modules[i], nil
		}
	}
	return nil, util.ErrModuleNotFound
}

func review(qs []model.Question, answers []*int) []AnswerReview {
	out := make([]AnswerReview, 0, len(qs))
	for i, q := range qs {
		var selected *int
		if i < len(answers) {
			selected = answers[i]
		}
		out = append(out, AnswerReview{
			Question:    i,
			Selected:    selected,
			Correct:     q.Correct,
			IsCorrect:   selected != nil && *selected == q.Correct,
			Explanation: q.Explanation,
		})
	}
	return out
}

// SubmitGameAttempt scores answers for gameID and records the completion.
func (s *CatalogService) SubmitGameAttempt(ctx context.Context, userID uint, gameID string, answers []*int) (*AttemptResult, error) {
	q, err := s.Game(gameID)
	if err != nil {
		return nil, err
	}
	score := ScoreQuiz(q.Questions, answers)

	totals, err := s.ProgressService.MergeGameCompletion(ctx, userID, q.ID, score.Points)
	if err != nil {
		return nil, err
	}
	monitoring.QuizAttempts.WithLabelValues("game", strconv.FormatBool(score.Passed)).Inc()

	return &AttemptResult{
		Score:             score,
		DisplayPercentage: score.DisplayPercentage(),
		Review:            review(q.Questions, answers),
		Totals:            &totals,
	}, nil
}

// SubmitModuleAttempt scores answers for moduleID and stores the result as
// the module entry. A retake overwrites the previous entry.
func (s *CatalogService) SubmitModuleAttempt(ctx context.Context, userID uint, moduleID string, answers []*int) (*AttemptResult, error) {
	m, err := s.Module(moduleID)
	if err != nil {
		return nil, err
	}
	score := ScoreQuiz(m.Questions, answers)

	err = s.ProgressService.MergeModuleCompletion(ctx, userID, m.ID, model.ModuleResult{
		Completed:      true,
		Score:          score.Points,
		CompletedAt:    s.now(),
		TotalQuestions: score.TotalQuestions,
	})
	if err != nil {
		return nil, err
	}
	monitoring.QuizAttempts.WithLabelValues("module", strconv.FormatBool(score.Passed)).Inc()

	return &AttemptResult{
		Score:             score,
		DisplayPercentage: score.DisplayPercentage(),
		Review:            review(m.Questions, answers),
	}, nil
}
