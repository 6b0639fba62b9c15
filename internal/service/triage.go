package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"iaprender_backend/internal/content"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/logger"
	"iaprender_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// TriageAdvisor turns a mood and an optional free-text description into the
// support guidance shown to the student.
type TriageAdvisor struct {
	Table content.TriageTable
}

func NewTriageAdvisor(table content.TriageTable) *TriageAdvisor {
	return &TriageAdvisor{Table: table}
}

// IsEmergency reports whether text mentions any self-harm keyword.
func (a *TriageAdvisor) IsEmergency(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range a.Table.Emergency.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ResolveMood maps unsupported moods to the default one.
func (a *TriageAdvisor) ResolveMood(mood model.Mood) model.Mood {
	if _, ok := a.Table.Moods[mood]; ok {
		return mood
	}
	return a.Table.DefaultMood
}

// Advise builds the response for mood and situation. The emergency payload
// replaces the templates whenever the situation trips a keyword.
func (a *TriageAdvisor) Advise(mood model.Mood, situation string) model.TriageResponse {
	mood = a.ResolveMood(mood)

	if a.IsEmergency(situation) {
		monitoring.TriageEmergencies.Inc()
		return model.TriageResponse{
			Mood:      mood,
			Emergency: true,
			Message:   a.Table.Emergency.Message,
			Contacts:  append([]model.EmergencyContact(nil), a.Table.Emergency.Contacts...),
		}
	}

	tpl := a.Table.Moods[mood]
	resp := model.TriageResponse{
		Mood:      mood,
		Immediate: tpl.Immediate,
		Guidance:  tpl.Guidance,
		LongTerm:  tpl.LongTerm,
	}
	if s := strings.TrimSpace(situation); s != "" {
		resp.Acknowledgment = fmt.Sprintf(a.Table.Acknowledgment, s)
	}
	return resp
}

// MoodOption is a selectable mood with its display label.
type MoodOption struct {
	Mood  model.Mood `json:"mood"`
	Label string     `json:"label"`
}

func (a *TriageAdvisor) Moods() []MoodOption {
	out := make([]MoodOption, 0, len(model.Moods))
	for _, m := range model.Moods {
		out = append(out, MoodOption{Mood: m, Label: a.Table.Moods[m].Label})
	}
	return out
}

type TriageStep string

const (
	StepMoodSelection TriageStep = "mood-selection"
	StepFreeTextEntry TriageStep = "free-text-entry"
	StepResponse      TriageStep = "response"
)

// TriageSession walks mood-selection -> free-text-entry -> response. Back
// returns from free-text-entry to mood-selection and Restart is allowed from
// any step.
type TriageSession struct {
	Step      TriageStep            `json:"step"`
	Mood      model.Mood            `json:"mood,omitempty"`
	Situation string                `json:"situation,omitempty"`
	Response  *model.TriageResponse `json:"response,omitempty"`
}

func NewTriageSession() *TriageSession {
	return &TriageSession{Step: StepMoodSelection}
}

func (s *TriageSession) SelectMood(mood model.Mood) error {
	if s.Step != StepMoodSelection {
		return fmt.Errorf("select mood during %s: %w", s.Step, util.ErrInvalidTransition)
	}
	s.Mood = mood
	s.Step = StepFreeTextEntry
	return nil
}

func (s *TriageSession) Back() error {
	if s.Step != StepFreeTextEntry {
		return fmt.Errorf("back during %s: %w", s.Step, util.ErrInvalidTransition)
	}
	s.Step = StepMoodSelection
	s.Situation = ""
	return nil
}

func (s *TriageSession) Submit(advisor *TriageAdvisor, situation string) (*model.TriageResponse, error) {
	if s.Step != StepFreeTextEntry {
		return nil, fmt.Errorf("submit during %s: %w", s.Step, util.ErrInvalidTransition)
	}
	resp := advisor.Advise(s.Mood, situation)
	s.Situation = situation
	s.Response = &resp
	s.Step = StepResponse
	return &resp, nil
}

func (s *TriageSession) Restart() {
	*s = TriageSession{Step: StepMoodSelection}
}

// TriageSessionStore keeps one in-flight session per user in memory.
type TriageSessionStore struct {
	mu       sync.Mutex
	sessions map[uint]*TriageSession
}

func NewTriageSessionStore() *TriageSessionStore {
	return &TriageSessionStore{sessions: make(map[uint]*TriageSession)}
}

// Update runs fn on the user's session, creating it when missing, and
// returns a snapshot taken after fn.
func (st *TriageSessionStore) Update(userID uint, fn func(s *TriageSession) error) (TriageSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[userID]
	if !ok {
		s = NewTriageSession()
		st.sessions[userID] = s
	}
	err := fn(s)
	return *s, err
}

func (st *TriageSessionStore) Get(userID uint) TriageSession {
	snap, _ := st.Update(userID, func(*TriageSession) error { return nil })
	return snap
}

func (st *TriageSessionStore) Delete(userID uint) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}

// SupportService drives the per-user triage flow over HTTP.
type SupportService struct {
	Advisor     *TriageAdvisor
	Sessions    *TriageSessionStore
	SupportRepo *repository.SupportRepository
}

func NewSupportService(advisor *TriageAdvisor, sessions *TriageSessionStore, supportRepo *repository.SupportRepository) *SupportService {
	return &SupportService{
		Advisor:     advisor,
		Sessions:    sessions,
		SupportRepo: supportRepo,
	}
}

func (s *SupportService) Moods() []MoodOption {
	return s.Advisor.Moods()
}

func (s *SupportService) Session(userID uint) TriageSession {
	return s.Sessions.Get(userID)
}

func (s *SupportService) SelectMood(userID uint, mood model.Mood) (TriageSession, error) {
	return s.Sessions.Update(userID, func(t *TriageSession) error {
		return t.SelectMood(mood)
	})
}

func (s *SupportService) Back(userID uint) (TriageSession, error) {
	return s.Sessions.Update(userID, func(t *TriageSession) error {
		return t.Back()
	})
}

func (s *SupportService) Restart(userID uint) TriageSession {
	snap, _ := s.Sessions.Update(userID, func(t *TriageSession) error {
		t.Restart()
		return nil
	})
	return snap
}

// Submit produces the response for the user's session and records it when a
// repository is configured. Recording failures are logged only.
func (s *SupportService) Submit(ctx context.Context, userID uint, situation string) (TriageSession, error) {
	snap, err := s.Sessions.Update(userID, func(t *TriageSession) error {
		_, err := t.Submit(s.Advisor, situation)
		return err
	})
	if err != nil {
		return snap, err
	}

	if s.SupportRepo != nil {
		record := &model.EmotionalSupportSession{
			UserID:    userID,
			Mood:      snap.Response.Mood,
			Situation: situation,
			Emergency: snap.Response.Emergency,
		}
		if err := s.SupportRepo.Create(ctx, record); err != nil {
			logger.Log.Warn("Failed to record support session", zap.Uint("userID", userID), zap.Error(err))
		}
	}
	if snap.Response.Emergency {
		logger.Log.Warn("Emergency keywords in support session", zap.Uint("userID", userID))
	}
	return snap, nil
}
