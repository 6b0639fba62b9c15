// Package content holds the static tables shipped with the binary: quiz
// games, technology modules, tutor fallback replies and triage templates.
package content

import (
	"embed"
	"fmt"
	"strings"

	"iaprender_backend/internal/model"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var files embed.FS

// FallbackRule maps any of its keywords to a canned reply.
type FallbackRule struct {
	Topic    string   `yaml:"topic" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"min=1,dive,required"`
	Reply    string   `yaml:"reply" validate:"required"`
}

type FallbackTable struct {
	Rules   []FallbackRule `yaml:"rules" validate:"min=1,dive"`
	Default string         `yaml:"default" validate:"required"`
}

type MoodTemplate struct {
	Label     string `yaml:"label" json:"label" validate:"required"`
	Immediate string `yaml:"immediate" json:"-" validate:"required"`
	Guidance  string `yaml:"guidance" json:"-" validate:"required"`
	LongTerm  string `yaml:"long_term" json:"-" validate:"required"`
}

type Emergency struct {
	Keywords []string                 `yaml:"keywords" validate:"min=1,dive,required"`
	Message  string                   `yaml:"message" validate:"required"`
	Contacts []model.EmergencyContact `yaml:"contacts" validate:"min=1,dive"`
}

type TriageTable struct {
	DefaultMood    model.Mood                  `yaml:"default_mood" validate:"required"`
	Acknowledgment string                      `yaml:"acknowledgment" validate:"required"`
	Moods          map[model.Mood]MoodTemplate `yaml:"moods" validate:"required,dive"`
	Emergency      Emergency                   `yaml:"emergency"`
}

// Content is the full set of static tables.
type Content struct {
	Quizzes  []model.QuizDefinition
	Modules  []model.TechModule
	Fallback FallbackTable
	Triage   TriageTable
}

var validate = validator.New()

// Load parses and validates the embedded tables.
func Load() (*Content, error) {
	var c Content

	var quizzes struct {
		Quizzes []model.QuizDefinition `yaml:"quizzes" validate:"min=1,dive"`
	}
	if err := decode("quizzes.yaml", &quizzes); err != nil {
		return nil, err
	}
	c.Quizzes = quizzes.Quizzes

	var modules struct {
		Modules []model.TechModule `yaml:"modules" validate:"min=1,dive"`
	}
	if err := decode("modules.yaml", &modules); err != nil {
		return nil, err
	}
	c.Modules = modules.Modules

	if err := decode("fallback.yaml", &c.Fallback); err != nil {
		return nil, err
	}
	if err := decode("triage.yaml", &c.Triage); err != nil {
		return nil, err
	}

	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func decode(name string, out interface{}) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	return nil
}

// check enforces the cross-field rules the struct tags cannot express.
func (c *Content) check() error {
	seen := make(map[string]bool)
	for _, q := range c.Quizzes {
		if seen[q.ID] {
			return fmt.Errorf("duplicate quiz id %q", q.ID)
		}
		seen[q.ID] = true
		if err := checkQuestions(q.ID, q.Questions); err != nil {
			return err
		}
	}
	for _, m := range c.Modules {
		if seen[m.ID] {
			return fmt.Errorf("duplicate module id %q", m.ID)
		}
		seen[m.ID] = true
		if err := checkQuestions(m.ID, m.Questions); err != nil {
			return err
		}
	}

	for _, mood := range model.Moods {
		if _, ok := c.Triage.Moods[mood]; !ok {
			return fmt.Errorf("triage template missing for mood %q", mood)
		}
	}
	if _, ok := c.Triage.Moods[c.Triage.DefaultMood]; !ok {
		return fmt.Errorf("default mood %q has no template", c.Triage.DefaultMood)
	}
	if !strings.Contains(c.Triage.Acknowledgment, "%s") {
		return fmt.Errorf("triage acknowledgment must contain a %%s placeholder")
	}
	return nil
}

func checkQuestions(id string, questions []model.Question) error {
	for i, q := range questions {
		if q.Correct >= len(q.Options) {
			return fmt.Errorf("%s question %d: correct index %d out of range", id, i, q.Correct)
		}
	}
	return nil
}
