package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"iaprender_backend/internal/config"
	"iaprender_backend/internal/content"
	"iaprender_backend/internal/llm"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/logger"
	"iaprender_backend/pkg/monitoring"
	"iaprender_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TutorPersona is the system instruction sent with every tutor request.
const TutorPersona = "Você é um assistente educacional especializado em ajudar estudantes brasileiros. " +
	"Responda sempre em português brasileiro de forma clara, educativa e encorajadora. " +
	"Foque em temas educacionais como matemática, português, ciências e tecnologia. " +
	"Seja empático, motivador e use uma linguagem acessível para estudantes. " +
	"Mantenha as respostas concisas mas informativas (máximo 200 palavras). " +
	"Se o estudante demonstrar dificuldades emocionais, seja acolhedor e sugira buscar ajuda profissional quando necessário."

const (
	defaultTutorTimeout   = 10 * time.Second
	defaultTutorMaxTokens = 300

	ReplySourceProvider = "provider"
	ReplySourceFallback = "fallback"
)

var ErrEmptyMessage = errors.New("message is empty")

// ConversationService answers tutor chat messages. The configured provider
// is tried first; any failure ends in the keyword fallback table, so a reply
// is always produced.
type ConversationService struct {
	ChatRepo *repository.ChatRepository
	Provider llm.Provider
	Fallback content.FallbackTable
	AI       config.AIConfig
	now      func() time.Time
}

func NewConversationService(chatRepo *repository.ChatRepository, provider llm.Provider, fallback content.FallbackTable, ai config.AIConfig) *ConversationService {
	if ai.Timeout <= 0 {
		ai.Timeout = defaultTutorTimeout
	}
	if ai.MaxTokens <= 0 {
		ai.MaxTokens = defaultTutorMaxTokens
	}
	return &ConversationService{
		ChatRepo: chatRepo,
		Provider: provider,
		Fallback: fallback,
		AI:       ai,
		now:      time.Now,
	}
}

// Respond stores the user's message, produces the tutor reply and stores it
// too. Transcript failures are logged only.
func (s *ConversationService) Respond(ctx context.Context, userID uint, message string) (string, error) {
	if userID == 0 {
		return "", util.ErrNotAuthenticated
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	ctx, span := tracing.Tracer.Start(ctx, "ConversationService.Respond")
	defer span.End()
	span.SetAttributes(tracing.UserAttr(userID))

	s.save(ctx, userID, model.SenderUser, message)

	reply, source := s.generate(ctx, message)
	span.SetAttributes(attribute.String("tutor.source", source))
	monitoring.TutorReplies.WithLabelValues(source).Inc()

	s.save(ctx, userID, model.SenderAssistant, reply)
	return reply, nil
}

func (s *ConversationService) generate(ctx context.Context, message string) (string, string) {
	if s.Provider == nil {
		return s.FallbackReply(message), ReplySourceFallback
	}

	callCtx, cancel := context.WithTimeout(ctx, s.AI.Timeout)
	defer cancel()

	resp, err := s.Provider.Complete(callCtx, llm.UserRequest(TutorPersona, message, s.AI.MaxTokens, s.AI.Temperature))
	if err != nil {
		logger.Log.Warn("Tutor provider failed, using fallback",
			zap.String("model", s.Provider.ModelID()),
			zap.Error(err))
		return s.FallbackReply(message), ReplySourceFallback
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		logger.Log.Warn("Tutor provider returned an empty completion, using fallback",
			zap.String("model", s.Provider.ModelID()))
		return s.FallbackReply(message), ReplySourceFallback
	}
	return text, ReplySourceProvider
}

// FallbackReply returns the reply of the first rule with a keyword contained
// in message (case-insensitive), or the default reply.
func (s *ConversationService) FallbackReply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range s.Fallback.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Reply
			}
		}
	}
	return s.Fallback.Default
}

func (s *ConversationService) save(ctx context.Context, userID uint, sender model.ChatSender, text string) {
	msg := &model.ChatMessage{
		UserID:    userID,
		Sender:    sender,
		Text:      text,
		Timestamp: s.now(),
	}
	if err := s.ChatRepo.Append(ctx, msg); err != nil {
		logger.Log.Warn("Failed to save chat message",
			zap.Uint("userID", userID),
			zap.String("sender", string(sender)),
			zap.Error(err))
	}
}

func (s *ConversationService) History(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	if userID == 0 {
		return nil, util.ErrNotAuthenticated
	}
	return s.ChatRepo.History(ctx, userID)
}
