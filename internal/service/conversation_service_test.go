package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"iaprender_backend/internal/config"
	"iaprender_backend/internal/content"
	"iaprender_backend/internal/llm"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/testutil"
	"iaprender_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConversationService(t *testing.T, provider llm.Provider, timeout time.Duration) (*ConversationService, *gorm.DB) {
	t.Helper()
	c, err := content.Load()
	require.NoError(t, err)
	db := testutil.NewDB(t)
	s := NewConversationService(repository.NewChatRepository(db), provider, c.Fallback, config.AIConfig{
		MaxTokens:   300,
		Temperature: 0.7,
		Timeout:     timeout,
	})
	return s, db
}

func fallbackFor(t *testing.T, topic string) string {
	t.Helper()
	c, err := content.Load()
	require.NoError(t, err)
	for _, r := range c.Fallback.Rules {
		if r.Topic == topic {
			return r.Reply
		}
	}
	t.Fatalf("no fallback rule for %s", topic)
	return ""
}

func TestConversation_ProviderReplyIsTrimmed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "  Frações são partes de um todo.  \n"})
	s, _ := newConversationService(t, mock, time.Second)

	reply, err := s.Respond(context.Background(), 1, "O que são frações?")
	require.NoError(t, err)
	assert.Equal(t, "Frações são partes de um todo.", reply)

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, TutorPersona, mock.Calls[0].System)
	assert.Equal(t, 300, mock.Calls[0].MaxTokens)
	assert.Equal(t, "O que são frações?", mock.Calls[0].Messages[0].Content)
}

func TestConversation_FailingProviderFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("boom")}})
	s, _ := newConversationService(t, mock, time.Second)

	reply, err := s.Respond(context.Background(), 1, "Preciso de AJUDA com matemática")
	require.NoError(t, err)
	assert.Equal(t, fallbackFor(t, "help"), reply)
}

func TestConversation_EmptyCompletionFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "   "})
	s, _ := newConversationService(t, mock, time.Second)

	reply, err := s.Respond(context.Background(), 1, "me fale sobre python")
	require.NoError(t, err)
	assert.Equal(t, fallbackFor(t, "python"), reply)
}

func TestConversation_TimeoutFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "tarde demais", Delay: time.Second})
	s, _ := newConversationService(t, mock, 20*time.Millisecond)

	reply, err := s.Respond(context.Background(), 1, "algo sem palavra-chave")
	require.NoError(t, err)
	assert.Equal(t, s.Fallback.Default, reply)
}

func TestConversation_NoProviderUsesRulesInOrder(t *testing.T) {
	s, _ := newConversationService(t, nil, time.Second)

	// "jogo" (games) precedes "matemática" in the table
	assert.Equal(t, fallbackFor(t, "games"), s.FallbackReply("um jogo de matemática"))
	assert.Equal(t, fallbackFor(t, "databases"), s.FallbackReply("Como uso SQL?"))
	assert.Equal(t, s.Fallback.Default, s.FallbackReply("bom dia"))
}

func TestConversation_TranscriptInOrder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Olá!"})
	s, _ := newConversationService(t, mock, time.Second)
	ctx := context.Background()

	_, err := s.Respond(ctx, 4, "oi")
	require.NoError(t, err)

	msgs, err := s.History(ctx, 4)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Equal(t, "oi", msgs[0].Text)
	assert.Equal(t, model.SenderAssistant, msgs[1].Sender)
	assert.Equal(t, "Olá!", msgs[1].Text)

	other, err := s.History(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestConversation_TranscriptFailureIsSwallowed(t *testing.T) {
	s, db := newConversationService(t, nil, time.Second)
	require.NoError(t, db.Migrator().DropTable(&model.ChatMessage{}))

	reply, err := s.Respond(context.Background(), 1, "qual meu progresso?")
	require.NoError(t, err)
	assert.Equal(t, fallbackFor(t, "progress"), reply)
}

func TestConversation_Preconditions(t *testing.T) {
	s, _ := newConversationService(t, nil, time.Second)

	_, err := s.Respond(context.Background(), 0, "oi")
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
	_, err = s.Respond(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}
