package model

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// ModuleResult is the stored outcome of one tech-module quiz.
type ModuleResult struct {
	Completed      bool      `json:"completed"`
	Score          int       `json:"score"`
	CompletedAt    time.Time `json:"completedAt"`
	TotalQuestions int       `json:"totalQuestions"`
}

// UserProgress is the single progress document kept per user. It carries
// both the game totals (completed set, cumulative score) and the per-module
// results map. Version increments on every write and guards the optimistic
// game transaction.
//
// swagger:model UserProgress
type UserProgress struct {
	UserID         uint                                         `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	CompletedGames datatypes.JSONSlice[string]                  `json:"completedGames"`
	TotalScore     int                                          `gorm:"not null;default:0" json:"totalScore"`
	LastPlayed     *time.Time                                   `json:"lastPlayed,omitempty"`
	Modules        datatypes.JSONType[map[string]ModuleResult] `json:"modules"`
	Version        int                                          `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time                                    `json:"createdAt"`
	UpdatedAt      time.Time                                    `json:"updatedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// NewUserProgress returns the empty record for userID.
func NewUserProgress(userID uint) *UserProgress {
	return &UserProgress{
		UserID:         userID,
		CompletedGames: datatypes.JSONSlice[string]{},
		Modules:        datatypes.NewJSONType(map[string]ModuleResult{}),
	}
}

// HasCompletedGame reports whether gameID is in the completed set.
func (p *UserProgress) HasCompletedGame(gameID string) bool {
	return slices.Contains(p.CompletedGames, gameID)
}

// ApplyGameCompletion adds gameID to the completed set (at most once) and
// adds points to the total on every call, including replays.
func (p *UserProgress) ApplyGameCompletion(gameID string, points int, at time.Time) {
	if !p.HasCompletedGame(gameID) {
		p.CompletedGames = append(p.CompletedGames, gameID)
	}
	p.TotalScore += points
	if p.TotalScore < 0 {
		p.TotalScore = 0
	}
	p.LastPlayed = &at
}

// ModuleMap returns a copy of the module results; never nil.
func (p *UserProgress) ModuleMap() map[string]ModuleResult {
	src := p.Modules.Data()
	out := make(map[string]ModuleResult, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// SetModule overwrites the entry for moduleID.
func (p *UserProgress) SetModule(moduleID string, result ModuleResult) {
	modules := p.ModuleMap()
	modules[moduleID] = result
	p.Modules = datatypes.NewJSONType(modules)
}

// Module returns the stored result for moduleID.
func (p *UserProgress) Module(moduleID string) (ModuleResult, bool) {
	r, ok := p.Modules.Data()[moduleID]
	return r, ok
}

// ModuleScoreTotal sums the scores of every module entry.
func (p *UserProgress) ModuleScoreTotal() int {
	total := 0
	for _, m := range p.Modules.Data() {
		total += m.Score
	}
	return total
}

// CompletedModuleCount counts entries flagged completed.
func (p *UserProgress) CompletedModuleCount() int {
	n := 0
	for _, m := range p.Modules.Data() {
		if m.Completed {
			n++
		}
	}
	return n
}

// GameTotals is what a game completion reports back to the caller.
type GameTotals struct {
	CompletedGames []string   `json:"completedGames"`
	TotalScore     int        `json:"totalScore"`
	LastPlayed     *time.Time `json:"lastPlayed,omitempty"`
}

func (p *UserProgress) Totals() GameTotals {
	return GameTotals{
		CompletedGames: slices.Clone([]string(p.CompletedGames)),
		TotalScore:     p.TotalScore,
		LastPlayed:     p.LastPlayed,
	}
}

// StudentProgress pairs a student with their (possibly empty) progress, the
// unit the teacher aggregation works over.
type StudentProgress struct {
	Student  User          `json:"student"`
	Progress *UserProgress `json:"progress"`
}

// ModuleScore is the student's summed module score; zero without progress.
func (s StudentProgress) ModuleScore() int {
	if s.Progress == nil {
		return 0
	}
	return s.Progress.ModuleScoreTotal()
}

// HasModuleProgress reports whether the student has any module entry.
func (s StudentProgress) HasModuleProgress() bool {
	return s.Progress != nil && len(s.Progress.Modules.Data()) > 0
}
