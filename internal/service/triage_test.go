package service

import (
	"context"
	"strings"
	"testing"

	"iaprender_backend/internal/content"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/testutil"
	"iaprender_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdvisor(t *testing.T) *TriageAdvisor {
	t.Helper()
	c, err := content.Load()
	require.NoError(t, err)
	return NewTriageAdvisor(c.Triage)
}

func TestTriage_EveryMoodHasThreeSections(t *testing.T) {
	a := newAdvisor(t)
	for _, m := range model.Moods {
		resp := a.Advise(m, "")
		assert.Equal(t, m, resp.Mood)
		assert.False(t, resp.Emergency)
		assert.NotEmpty(t, resp.Immediate, m)
		assert.NotEmpty(t, resp.Guidance, m)
		assert.NotEmpty(t, resp.LongTerm, m)
		assert.Empty(t, resp.Acknowledgment)
	}
	assert.Len(t, a.Moods(), 8)
	assert.Equal(t, "Ansioso(a)", a.Moods()[0].Label)
}

func TestTriage_UnknownMoodUsesDefault(t *testing.T) {
	a := newAdvisor(t)
	resp := a.Advise("euphoric", "")
	assert.Equal(t, model.MoodAnxious, resp.Mood)
	assert.Equal(t, a.Table.Moods[model.MoodAnxious].Immediate, resp.Immediate)
}

func TestTriage_SituationIsEchoedVerbatim(t *testing.T) {
	a := newAdvisor(t)
	resp := a.Advise(model.MoodStressed, "  tenho prova amanhã  ")
	assert.Contains(t, resp.Acknowledgment, `"tenho prova amanhã"`)
}

func TestTriage_EmergencyOverridesMood(t *testing.T) {
	a := newAdvisor(t)
	for _, m := range []model.Mood{model.MoodTired, model.MoodAngry, "unknown"} {
		resp := a.Advise(m, "Às vezes penso em SUICÍDIO")
		assert.True(t, resp.Emergency)
		assert.Empty(t, resp.Immediate)
		assert.Empty(t, resp.Acknowledgment)
		assert.NotEmpty(t, resp.Message)

		phones := make([]string, 0, len(resp.Contacts))
		for _, c := range resp.Contacts {
			phones = append(phones, c.Phone)
		}
		assert.Equal(t, []string{"188", "136", "192", "190"}, phones)
	}
	assert.True(t, a.IsEmergency("quero me cortar"))
	assert.False(t, a.IsEmergency("estou cansado da escola"))
}

func TestTriageSession_Transitions(t *testing.T) {
	a := newAdvisor(t)
	s := NewTriageSession()

	_, err := s.Submit(a, "oi")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
	assert.ErrorIs(t, s.Back(), util.ErrInvalidTransition)

	require.NoError(t, s.SelectMood(model.MoodSad))
	assert.Equal(t, StepFreeTextEntry, s.Step)
	assert.ErrorIs(t, s.SelectMood(model.MoodLonely), util.ErrInvalidTransition)

	require.NoError(t, s.Back())
	assert.Equal(t, StepMoodSelection, s.Step)
	require.NoError(t, s.SelectMood(model.MoodLonely))

	resp, err := s.Submit(a, "")
	require.NoError(t, err)
	assert.Equal(t, model.MoodLonely, resp.Mood)
	assert.Equal(t, StepResponse, s.Step)
	assert.ErrorIs(t, s.Back(), util.ErrInvalidTransition)

	s.Restart()
	assert.Equal(t, StepMoodSelection, s.Step)
	assert.Nil(t, s.Response)
	assert.Empty(t, s.Mood)
}

func TestSupportService_FlowRecordsSession(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewSupportRepository(db)
	s := NewSupportService(newAdvisor(t), NewTriageSessionStore(), repo)
	ctx := context.Background()

	assert.Equal(t, StepMoodSelection, s.Session(1).Step)

	_, err := s.SelectMood(1, model.MoodOverwhelmed)
	require.NoError(t, err)
	assert.Equal(t, StepMoodSelection, s.Session(2).Step)

	snap, err := s.Submit(ctx, 1, "muitas tarefas")
	require.NoError(t, err)
	require.NotNil(t, snap.Response)
	assert.True(t, strings.Contains(snap.Response.Acknowledgment, "muitas tarefas"))

	_, err = s.Submit(ctx, 1, "de novo")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	records, err := repo.FindByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.MoodOverwhelmed, records[0].Mood)

	assert.Equal(t, StepMoodSelection, s.Restart(1).Step)
}

func TestSupportService_RecordFailureIsSwallowed(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Migrator().DropTable(&model.EmotionalSupportSession{}))
	s := NewSupportService(newAdvisor(t), NewTriageSessionStore(), repository.NewSupportRepository(db))

	_, err := s.SelectMood(1, model.MoodTired)
	require.NoError(t, err)
	snap, err := s.Submit(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, StepResponse, snap.Step)
}
