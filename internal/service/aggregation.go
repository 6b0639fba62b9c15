package service

import (
	"sort"

	"iaprender_backend/internal/model"
)

// DefaultLeaderboardSize is how many students the teacher overview ranks.
const DefaultLeaderboardSize = 5

// AggregationView derives the teacher dashboard numbers from a list of
// students and their progress. It holds no state.
type AggregationView struct{}

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	StudentID   uint   `json:"studentId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Score       int    `json:"score"`
}

// ModuleStat is the completion rate of one module across all students.
type ModuleStat struct {
	ModuleID       string  `json:"moduleId"`
	Title          string  `json:"title"`
	CompletedCount int     `json:"completedCount"`
	CompletionRate float64 `json:"completionRate"`
}

// Overview is the teacher dashboard payload.
type Overview struct {
	StudentCount       int                `json:"studentCount"`
	ActiveStudentCount int                `json:"activeStudentCount"`
	AverageScore       float64            `json:"averageScore"`
	Leaderboard        []LeaderboardEntry `json:"leaderboard"`
	Modules            []ModuleStat       `json:"modules"`
}

// ActiveStudentCount counts students with at least one module entry.
func (AggregationView) ActiveStudentCount(students []model.StudentProgress) int {
	n := 0
	for _, s := range students {
		if s.HasModuleProgress() {
			n++
		}
	}
	return n
}

// AverageScore is the mean of the per-student module score sums. An empty
// list averages to 0.
func (AggregationView) AverageScore(students []model.StudentProgress) float64 {
	total := 0
	for _, s := range students {
		total += s.ModuleScore()
	}
	return float64(total) / float64(max(1, len(students)))
}

// Leaderboard ranks students by summed module score, highest first. Ties keep
// their input order. topN <= 0 returns everyone.
func (AggregationView) Leaderboard(students []model.StudentProgress, topN int) []LeaderboardEntry {
	ranked := make([]model.StudentProgress, len(students))
	copy(ranked, students)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ModuleScore() > ranked[j].ModuleScore()
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]LeaderboardEntry, 0, len(ranked))
	for i, s := range ranked {
		out = append(out, LeaderboardEntry{
			Rank:        i + 1,
			StudentID:   s.Student.ID,
			DisplayName: s.Student.DisplayName,
			Email:       s.Student.Email,
			Score:       s.ModuleScore(),
		})
	}
	return out
}

// ModuleCompletionRate is the fraction of students that completed moduleID.
func (AggregationView) ModuleCompletionRate(students []model.StudentProgress, moduleID string) float64 {
	return float64(completedCount(students, moduleID)) / float64(max(1, len(students)))
}

func completedCount(students []model.StudentProgress, moduleID string) int {
	n := 0
	for _, s := range students {
		if s.Progress == nil {
			continue
		}
		if m, ok := s.Progress.Module(moduleID); ok && m.Completed {
			n++
		}
	}
	return n
}

// Overview combines every metric for the given module catalog.
func (v AggregationView) Overview(students []model.StudentProgress, modules []model.TechModule, topN int) Overview {
	stats := make([]ModuleStat, 0, len(modules))
	for _, m := range modules {
		stats = append(stats, ModuleStat{
			ModuleID:       m.ID,
			Title:          m.Title,
			CompletedCount: completedCount(students, m.ID),
			CompletionRate: v.ModuleCompletionRate(students, m.ID),
		})
	}
	return Overview{
		StudentCount:       len(students),
		ActiveStudentCount: v.ActiveStudentCount(students),
		AverageScore:       v.AverageScore(students),
		Leaderboard:        v.Leaderboard(students, topN),
		Modules:            stats,
	}
}
