package model

import "math"

// Difficulty of a quiz game.
type Difficulty string

const (
	Easy   Difficulty = "Fácil"
	Medium Difficulty = "Médio"
	Hard   Difficulty = "Difícil"
)

// Question is a single multiple-choice question. Correct indexes Options.
type Question struct {
	Prompt      string   `yaml:"prompt" json:"prompt" validate:"required"`
	Options     []string `yaml:"options" json:"options" validate:"min=2,dive,required"`
	Correct     int      `yaml:"correct" json:"correct,omitempty" validate:"gte=0"`
	Explanation string   `yaml:"explanation" json:"explanation,omitempty"`
}

// QuizDefinition is a game quiz. Defined at build time, never edited by users.
type QuizDefinition struct {
	ID          string     `yaml:"id" json:"id" validate:"required"`
	Title       string     `yaml:"title" json:"title" validate:"required"`
	Description string     `yaml:"description" json:"description"`
	Category    string     `yaml:"category" json:"category" validate:"required"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty" validate:"oneof=Fácil Médio Difícil"`
	Icon        string     `yaml:"icon" json:"icon,omitempty"`
	Questions   []Question `yaml:"questions" json:"questions" validate:"min=1,dive"`
}

// TechModule is a technology learning module closed by a quiz.
type TechModule struct {
	ID            string     `yaml:"id" json:"id" validate:"required"`
	Title         string     `yaml:"title" json:"title" validate:"required"`
	Description   string     `yaml:"description" json:"description"`
	Level         string     `yaml:"level" json:"level" validate:"oneof=Iniciante Intermediário Avançado"`
	EstimatedTime string     `yaml:"estimated_time" json:"estimatedTime"`
	Topics        []string   `yaml:"topics" json:"topics"`
	Questions     []Question `yaml:"questions" json:"questions" validate:"min=1,dive"`
}

// ScoreResult is the outcome of scoring one quiz attempt. Percentage is
// unrounded; use DisplayPercentage for presentation.
type ScoreResult struct {
	Points         int     `json:"points"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
	Passed         bool    `json:"passed"`
}

// DisplayPercentage rounds Percentage to two decimals for presentation.
func (r ScoreResult) DisplayPercentage() float64 {
	return math.Round(r.Percentage*100) / 100
}
