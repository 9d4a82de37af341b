package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studybud/internal/config"
	"studybud/internal/middleware"
	"studybud/internal/repository"
	"studybud/internal/service"
	"studybud/internal/testutil"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    time.Hour,
			Issuer:        "studybud-test",
		},
	}

	log := logger.NewNop()
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db, nil, log)
	services := service.NewServices(repos, cfg, log)

	router := NewRouter(
		NewHandlers(services, db, log),
		middleware.NewAuthMiddleware(services.Auth, log),
		middleware.NewRateLimitMiddleware(services.RateLimit, 10, time.Minute, log),
		log,
	)

	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register signs up username and returns its access token and user id.
func (s *testServer) register(username string) (string, string) {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(s.t, w, &resp)
	return resp.AccessToken, resp.User.ID
}

func (s *testServer) createRoom(token, topic, name, description string) string {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/v1/rooms", token, gin.H{
		"topic":       topic,
		"name":        name,
		"description": description,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var room struct {
		ID string `json:"id"`
	}
	decode(s.t, w, &room)
	return room.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}
