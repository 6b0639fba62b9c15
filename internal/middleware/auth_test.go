package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuth map[string]*util.Claims

func (f fakeAuth) Authenticate(_ context.Context, token string) (*util.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, util.ErrNotAuthenticated
}

func serve(r *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/teacher", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := fakeAuth{
		"student": {UserID: 1, Role: model.Student},
		"teacher": {UserID: 2, Role: model.Teacher},
		"admin":   {UserID: 3, Role: model.Admin},
	}
	r := gin.New()
	r.GET("/teacher", AuthMiddleware(auth), RoleMiddleware(model.Teacher), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, ""))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "forged"))
	assert.Equal(t, http.StatusForbidden, serve(r, "student"))
	assert.Equal(t, http.StatusOK, serve(r, "teacher"))
	assert.Equal(t, http.StatusOK, serve(r, "admin"))
}

type activityRecorder struct {
	mu   sync.Mutex
	seen []uint
	done chan struct{}
}

func (a *activityRecorder) UpdateLastSeen(userID uint, _ time.Time) error {
	a.mu.Lock()
	a.seen = append(a.seen, userID)
	a.mu.Unlock()
	close(a.done)
	return nil
}

func TestActivityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &activityRecorder{done: make(chan struct{})}
	r := gin.New()
	r.GET("/teacher", AuthMiddleware(fakeAuth{"t": {UserID: 7, Role: model.Teacher}}), ActivityMiddleware(rec), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, "t"))
	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("last seen not updated")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []uint{7}, rec.seen)
}
