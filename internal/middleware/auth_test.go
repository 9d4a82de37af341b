package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"studybud/internal/domain"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockValidator struct {
	users map[string]*domain.User
	err   error
}

func (m *mockValidator) ValidateToken(_ context.Context, token string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if user, ok := m.users[token]; ok {
		return user, nil
	}
	return nil, pkgerrors.ErrInvalidToken
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(v TokenValidator) *gin.Engine {
	m := NewAuthMiddleware(v, logger.NewNop())
	r := gin.New()

	whoami := func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"user_id": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "username": c.GetString(ContextUsername)})
	}

	r.POST("/rooms", m.RequireAuth(), whoami)
	r.GET("/rooms", m.OptionalAuth(), whoami)
	return r
}

func TestRequireAuth_ValidToken(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice"}
	r := newAuthRouter(&mockValidator{users: map[string]*domain.User{"good": alice}})

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, alice.ID.String(), body["user_id"])
	assert.Equal(t, "alice", body["username"])
}

func TestRequireAuth_APIClientGets401WithLoginURL(t *testing.T) {
	r := newAuthRouter(&mockValidator{})

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "authentication required"},
		{"wrong scheme", "Basic abc", "authentication required"},
		{"bad token", "Bearer nope", "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rooms?x=1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			req.Header.Set("Accept", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, "/login?next=%2Frooms%3Fx%3D1", body["login_url"])
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	r := newAuthRouter(&mockValidator{err: pkgerrors.ErrTokenExpired})

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	req.Header.Set("Authorization", "Bearer old")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestRequireAuth_BrowserIsRedirected(t *testing.T) {
	r := newAuthRouter(&mockValidator{})

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Frooms", w.Header().Get("Location"))
}

func TestRequireAuth_BackendFailureIs500(t *testing.T) {
	r := newAuthRouter(&mockValidator{err: assert.AnError})

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice"}
	r := newAuthRouter(&mockValidator{users: map[string]*domain.User{"good": alice}})

	for header, want := range map[string]string{
		"":            "",
		"Bearer bad":  "",
		"Bearer good": alice.ID.String(),
	} {
		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, "header %q", header)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, want, body["user_id"], "header %q", header)
	}
}
