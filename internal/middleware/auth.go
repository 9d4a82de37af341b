package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"studybud/internal/domain"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"

	// LoginPath is where browsers are sent when a page needs a signed-in user.
	LoginPath = "/login"
)

// TokenValidator resolves an access token to its user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
}

type AuthMiddleware struct {
	validator TokenValidator
	log       logger.Logger
}

func NewAuthMiddleware(validator TokenValidator, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		log:       log,
	}
}

// RequireAuth rejects anonymous callers. Browsers are redirected to the login
// page with a next parameter; API clients get 401 with the same login URL.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			m.unauthenticated(c, pkgerrors.ErrUnauthorized)
			return
		}

		user, err := m.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if pkgerrors.HTTPStatusFromError(err) >= http.StatusInternalServerError {
				m.log.Error("Failed to validate access token", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			m.log.Debug("Rejected access token", "error", err, "path", c.Request.URL.Path)
			m.unauthenticated(c, err)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := m.validator.ValidateToken(c.Request.Context(), token); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) unauthenticated(c *gin.Context, err error) {
	loginURL := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())

	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, loginURL)
		c.Abort()
		return
	}

	message := "authentication required"
	switch {
	case errors.Is(err, pkgerrors.ErrTokenExpired):
		message = pkgerrors.ErrTokenExpired.Error()
	case errors.Is(err, pkgerrors.ErrInvalidToken):
		message = pkgerrors.ErrInvalidToken.Error()
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":     message,
		"login_url": loginURL,
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}

	return strings.TrimSpace(parts[1]), true
}

func setUser(c *gin.Context, user *domain.User) {
	c.Set(ContextUserID, user.ID)
	c.Set(ContextUsername, user.Username)
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
