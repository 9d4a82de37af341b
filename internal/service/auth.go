package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"studybud/internal/config"
	"studybud/internal/domain"
	"studybud/internal/repository"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/jwt"
	"studybud/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
	maxUsernameLength = 150
	maxEmailLength    = 254
	maxDisplayName    = 200
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput, client ClientInfo) (*LoginResponse, error)
	Login(ctx context.Context, username, password string, client ClientInfo) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string, client ClientInfo) (*TokenResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
	Logout(ctx context.Context, refreshToken string) error
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// ClientInfo is recorded on the session for the account owner's benefit.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authService struct {
	userRepo     repository.UserRepository
	auditService AuditService
	jwtCfg       config.JWTConfig
	log          logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, auditService AuditService, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		auditService: auditService,
		jwtCfg:       jwtCfg,
		log:          log,
	}
}

// Register creates the account and logs it in.
func (s *authService) Register(ctx context.Context, input RegisterInput, client ClientInfo) (*LoginResponse, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if utf8.RuneCountInString(displayName) > maxDisplayName {
		return nil, fmt.Errorf("%w: display name is too long (max %d characters)", pkgerrors.ErrBadRequest, maxDisplayName)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		DisplayName:  displayName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("%w: username %q is taken", pkgerrors.ErrUserAlreadyExists, username)
		}
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	s.auditService.Record(ctx, &user.ID, domain.ActorRoleUser, nil, domain.EventTypeUserRegistered, map[string]interface{}{
		"username": user.Username,
	})

	return s.issueTokens(ctx, user, client)
}

// Login answers ErrInvalidCredentials for an unknown username and for a wrong
// password alike.
func (s *authService) Login(ctx context.Context, username, password string, client ClientInfo) (*LoginResponse, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, pkgerrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			s.log.Debug("Login for unknown user", "username", username)
			return nil, pkgerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("Login with wrong password", "user_id", user.ID)
		return nil, pkgerrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is disabled", pkgerrors.ErrInvalidCredentials)
	}

	resp, err := s.issueTokens(ctx, user, client)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login", "error", err, "user_id", user.ID)
	} else {
		resp.User.LastLoginAt = &now
	}

	return resp, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string, client ClientInfo) (*TokenResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtCfg.RefreshSecret)
	if err != nil {
		return nil, tokenError(err)
	}

	session, err := s.userRepo.GetSessionByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, pkgerrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, pkgerrors.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is disabled", pkgerrors.ErrUnauthorized)
	}

	if err := s.userRepo.RevokeSession(ctx, session.ID, domain.SessionRevokedRefreshed); err != nil {
		s.log.Warn("Failed to revoke old session", "error", err, "session_id", session.ID)
	}

	resp, err := s.issueTokens(ctx, user, client)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtCfg.AccessSecret)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, pkgerrors.ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is disabled", pkgerrors.ErrUnauthorized)
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.userRepo.GetSessionByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}

	return s.userRepo.RevokeSession(ctx, session.ID, domain.SessionRevokedLogout)
}

func (s *authService) issueTokens(ctx context.Context, user *domain.User, client ClientInfo) (*LoginResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Username, s.jwtCfg.AccessSecret, s.jwtCfg.Issuer, s.jwtCfg.AccessTTL)
	if err != nil {
		s.log.Error("Failed to generate access token", "error", err)
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := jwt.GenerateRefreshToken(user.ID, s.jwtCfg.RefreshSecret, s.jwtCfg.Issuer, s.jwtCfg.RefreshTTL)
	if err != nil {
		s.log.Error("Failed to generate refresh token", "error", err)
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		RefreshTokenHash: hashToken(refreshToken),
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.jwtCfg.RefreshTTL),
		IPAddress:        optional(client.IPAddress),
		UserAgent:        optional(truncate(client.UserAgent, 500)),
	}

	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func tokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return pkgerrors.ErrTokenExpired
	}
	return pkgerrors.ErrInvalidToken
}

func normalizeUsername(username string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	switch {
	case username == "":
		return "", fmt.Errorf("%w: username is required", pkgerrors.ErrBadRequest)
	case len(username) > maxUsernameLength:
		return "", fmt.Errorf("%w: username is too long (max %d characters)", pkgerrors.ErrBadRequest, maxUsernameLength)
	case !usernamePattern.MatchString(username):
		return "", fmt.Errorf("%w: username may contain only letters, digits and @/./+/-/_", pkgerrors.ErrBadRequest)
	}
	return username, nil
}

// normalizeEmail accepts an empty email; anything else must be a bare address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil
	}
	if len(email) > maxEmailLength {
		return "", fmt.Errorf("%w: email is too long", pkgerrors.ErrBadRequest)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email format", pkgerrors.ErrBadRequest)
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", pkgerrors.ErrBadRequest, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", pkgerrors.ErrBadRequest, maxPasswordLength)
	}
	return nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
