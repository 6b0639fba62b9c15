package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"iaprender_backend/internal/config"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/testutil"
	"iaprender_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, withRedis bool) *AuthService {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour}}
	store := repository.NewRedisStore(nil)
	if withRedis {
		rdb, _ := testutil.NewRedis(t)
		store = repository.NewRedisStore(rdb)
	}
	return NewAuthService(repository.NewUserRepository(testutil.NewDB(t)), store, NewSessionEvents(), cfg)
}

func authCode(t *testing.T, err error) AuthErrorCode {
	t.Helper()
	var ae *AuthError
	require.True(t, errors.As(err, &ae), "expected AuthError, got %v", err)
	return ae.Code
}

func TestAuth_SignUpValidation(t *testing.T) {
	s := newAuthService(t, false)

	_, err := s.SignUp(context.Background(), "not-an-email", "segredo123", "Ana")
	assert.Equal(t, AuthInvalidEmail, authCode(t, err))

	_, err = s.SignUp(context.Background(), "ana@escola.br", "123", "Ana")
	assert.Equal(t, AuthWeakPassword, authCode(t, err))
	assert.Equal(t, "A senha é muito fraca.", err.Error())

	u, err := s.SignUp(context.Background(), " Ana@Escola.br ", "segredo123", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@escola.br", u.Email)
	assert.Equal(t, model.Student, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
	assert.False(t, u.LastLoginAt.IsZero())
	assert.NotEqual(t, "segredo123", u.Password)

	_, err = s.SignUp(context.Background(), "ana@escola.br", "outrasenha", "Ana 2")
	assert.Equal(t, AuthEmailInUse, authCode(t, err))
}

func TestAuth_SignUpDropsCachedOverview(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour}}
	rdb, mr := testutil.NewRedis(t)
	s := NewAuthService(repository.NewUserRepository(testutil.NewDB(t)), repository.NewRedisStore(rdb), NewSessionEvents(), cfg)
	require.NoError(t, mr.Set(OverviewCacheKey, `{"studentCount":0}`))

	_, err := s.SignUp(ctx, "x", "segredo123", "Eva")
	assert.Equal(t, AuthInvalidEmail, authCode(t, err))
	assert.True(t, mr.Exists(OverviewCacheKey))

	_, err = s.SignUp(ctx, "eva@escola.br", "segredo123", "Eva")
	require.NoError(t, err)
	assert.False(t, mr.Exists(OverviewCacheKey))
}

func TestAuth_SignInAndSession(t *testing.T) {
	s := newAuthService(t, false)
	ctx := context.Background()
	_, err := s.SignUp(context.Background(), "bruno@escola.br", "segredo123", "Bruno")
	require.NoError(t, err)

	var events []SessionEvent
	unsubscribe := s.OnSessionChange(func(ev SessionEvent) { events = append(events, ev) })

	_, err = s.SignIn(ctx, "ninguem@escola.br", "segredo123")
	assert.Equal(t, AuthUserNotFound, authCode(t, err))
	_, err = s.SignIn(ctx, "bruno@escola.br", "errada")
	assert.Equal(t, AuthWrongPassword, authCode(t, err))

	res, err := s.SignIn(ctx, "bruno@escola.br", "segredo123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	claims, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	sess, err := s.CurrentSession(claims)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", sess.DisplayName)
	assert.Equal(t, model.Student, sess.Role)

	require.NoError(t, s.SignOut(ctx, claims))
	require.Len(t, events, 2)
	assert.Equal(t, SessionSignedIn, events[0].Type)
	assert.Equal(t, SessionSignedOut, events[1].Type)

	unsubscribe()
	unsubscribe()
	_, err = s.SignIn(ctx, "bruno@escola.br", "segredo123")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = s.CurrentSession(nil)
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
}

func TestAuth_SignOutRevokesToken(t *testing.T) {
	s := newAuthService(t, true)
	ctx := context.Background()
	_, err := s.SignUp(context.Background(), "carla@escola.br", "segredo123", "Carla")
	require.NoError(t, err)

	res, err := s.SignIn(ctx, "carla@escola.br", "segredo123")
	require.NoError(t, err)
	claims, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	require.NoError(t, s.SignOut(ctx, claims))
	_, err = s.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
}

func TestAuth_TooManyRequests(t *testing.T) {
	s := newAuthService(t, true)
	ctx := context.Background()
	_, err := s.SignUp(context.Background(), "davi@escola.br", "segredo123", "Davi")
	require.NoError(t, err)

	for i := 0; i < MaxFailedSignIns; i++ {
		_, err := s.SignIn(ctx, "davi@escola.br", "errada")
		assert.Equal(t, AuthWrongPassword, authCode(t, err))
	}
	_, err = s.SignIn(ctx, "davi@escola.br", "segredo123")
	assert.Equal(t, AuthTooManyRequests, authCode(t, err))
	assert.Equal(t, "Muitas tentativas. Tente novamente mais tarde.", err.Error())
}

func TestAuthErrorCode_UnknownMessage(t *testing.T) {
	assert.Equal(t, "Erro de autenticação. Tente novamente.", AuthErrorCode("bogus").Message())
}
