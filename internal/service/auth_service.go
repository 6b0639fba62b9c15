package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"iaprender_backend/internal/config"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 6

	MaxFailedSignIns   = 5
	FailedSignInWindow = 15 * time.Minute
)

// AuthErrorCode is the closed set of identity failures shown to users.
type AuthErrorCode string

const (
	AuthUserNotFound    AuthErrorCode = "user-not-found"
	AuthWrongPassword   AuthErrorCode = "wrong-password"
	AuthEmailInUse      AuthErrorCode = "email-already-in-use"
	AuthWeakPassword    AuthErrorCode = "weak-password"
	AuthInvalidEmail    AuthErrorCode = "invalid-email"
	AuthTooManyRequests AuthErrorCode = "too-many-requests"
	AuthUnknown         AuthErrorCode = "unknown"
)

var authMessages = map[AuthErrorCode]string{
	AuthUserNotFound:    "Usuário não encontrado. Verifique o email.",
	AuthWrongPassword:   "Senha incorreta.",
	AuthEmailInUse:      "Este email já está em uso.",
	AuthWeakPassword:    "A senha é muito fraca.",
	AuthInvalidEmail:    "Email inválido.",
	AuthTooManyRequests: "Muitas tentativas. Tente novamente mais tarde.",
	AuthUnknown:         "Erro de autenticação. Tente novamente.",
}

// Message is the localized text for code.
func (c AuthErrorCode) Message() string {
	if msg, ok := authMessages[c]; ok {
		return msg
	}
	return authMessages[AuthUnknown]
}

type AuthError struct {
	Code AuthErrorCode
	Err  error
}

func (e *AuthError) Error() string { return e.Code.Message() }

func (e *AuthError) Unwrap() error { return e.Err }

func authErr(code AuthErrorCode, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

type SessionEvent struct {
	Type   SessionEventType
	UserID uint
	At     time.Time
}

// SessionEvents fans session changes out to in-process subscribers.
type SessionEvents struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(SessionEvent)
}

func NewSessionEvents() *SessionEvents {
	return &SessionEvents{subs: make(map[int]func(SessionEvent))}
}

// Subscribe registers fn and returns the function that removes it.
func (h *SessionEvents) Subscribe(fn func(SessionEvent)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *SessionEvents) Publish(ev SessionEvent) {
	h.mu.RLock()
	fns := make([]func(SessionEvent), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Session is the identity resolved from a valid token.
type Session struct {
	UserID      uint           `json:"userId"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	Role        model.UserRole `json:"role"`
	ExpiresAt   time.Time      `json:"expiresAt"`
}

type SignInResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Store    *repository.RedisStore
	Events   *SessionEvents
	Cfg      *config.Config
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthService(userRepo *repository.UserRepository, store *repository.RedisStore, events *SessionEvents, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Store:    store,
		Events:   events,
		Cfg:      cfg,
		validate: validator.New(),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*model.User, error) {
	email = normalizeEmail(email)
	if s.validate.Var(email, "required,email") != nil {
		return nil, authErr(AuthInvalidEmail, nil)
	}
	if len(password) < MinPasswordLength {
		return nil, authErr(AuthWeakPassword, nil)
	}

	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, authErr(AuthEmailInUse, nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authErr(AuthUnknown, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, authErr(AuthUnknown, err)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	now := s.now()
	user := &model.User{
		DisplayName: displayName,
		Email:       email,
		Password:    string(hashedPassword),
		Role:        model.Student,
		LastLoginAt: now,
	}
	user.CreatedAt = now
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, authErr(AuthEmailInUse, err)
		}
		return nil, authErr(AuthUnknown, err)
	}
	invalidateOverview(ctx, s.Store)
	return user, nil
}

// SignIn checks the credentials and issues a token. Repeated failures for
// the same email are throttled when redis is available.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = normalizeEmail(email)
	if s.validate.Var(email, "required,email") != nil {
		return nil, authErr(AuthInvalidEmail, nil)
	}

	failures, err := s.Store.FailedLogins(ctx, email)
	if err != nil {
		logger.Log.Warn("Failed to read sign-in throttle", zap.Error(err))
	}
	if failures >= MaxFailedSignIns {
		return nil, authErr(AuthTooManyRequests, nil)
	}

	user, err := s.UserRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.recordFailure(ctx, email)
		return nil, authErr(AuthUserNotFound, err)
	} else if err != nil {
		return nil, authErr(AuthUnknown, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		return nil, authErr(AuthWrongPassword, err)
	}

	if err := s.Store.ResetFailedLogins(ctx, email); err != nil {
		logger.Log.Warn("Failed to reset sign-in throttle", zap.Error(err))
	}

	now := s.now()
	if err := s.UserRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("userID", user.ID), zap.Error(err))
	}
	user.LastLoginAt = now

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, authErr(AuthUnknown, err)
	}

	s.Events.Publish(SessionEvent{Type: SessionSignedIn, UserID: user.ID, At: now})
	return &SignInResult{
		Token:     token,
		ExpiresAt: now.Add(s.Cfg.JWT.ExpireTime),
		User:      user,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if _, err := s.Store.RecordFailedLogin(ctx, email, FailedSignInWindow); err != nil {
		logger.Log.Warn("Failed to record sign-in failure", zap.Error(err))
	}
}

// Authenticate resolves a bearer token into its claims, rejecting tokens
// revoked by SignOut.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, util.ErrNotAuthenticated
	}
	revoked, err := s.Store.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Log.Warn("Failed to check token revocation", zap.Error(err))
	}
	if revoked {
		return nil, util.ErrNotAuthenticated
	}
	return claims, nil
}

// SignOut deny-lists the token until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return util.ErrNotAuthenticated
	}
	if err := s.Store.RevokeToken(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return err
	}
	s.Events.Publish(SessionEvent{Type: SessionSignedOut, UserID: claims.UserID, At: s.now()})
	return nil
}

func (s *AuthService) CurrentSession(claims *util.Claims) (*Session, error) {
	if claims == nil {
		return nil, util.ErrNotAuthenticated
	}
	sess := &Session{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        claims.Role,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// OnSessionChange subscribes fn to sign-in and sign-out events.
func (s *AuthService) OnSessionChange(fn func(SessionEvent)) func() {
	return s.Events.Subscribe(fn)
}
