package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"studybud/internal/domain"
	"studybud/internal/repository"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/google/uuid"
)

const maxAvatarURL = 500

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	DeleteMe(ctx context.Context, userID uuid.UUID) error
}

// UpdateUserInput carries the settings form. Nil fields are left unchanged;
// an empty AvatarURL clears the avatar.
type UpdateUserInput struct {
	Username    *string
	Email       *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

type userService struct {
	userRepo     repository.UserRepository
	roomRepo     repository.RoomRepository
	messageRepo  repository.MessageRepository
	topicService TopicService
	auditService AuditService
	log          logger.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	roomRepo repository.RoomRepository,
	messageRepo repository.MessageRepository,
	topicService TopicService,
	auditService AuditService,
	log logger.Logger,
) UserService {
	return &userService{
		userRepo:     userRepo,
		roomRepo:     roomRepo,
		messageRepo:  messageRepo,
		topicService: topicService,
		auditService: auditService,
		log:          log,
	}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Profile is the public page of a user: rooms they host, what they wrote and
// the topic sidebar.
func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.ListByHost(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	topics, err := s.topicService.Top(ctx, domain.DefaultTopTopics)
	if err != nil {
		return nil, err
	}

	return &domain.UserProfile{
		User:     user,
		Rooms:    rooms,
		Messages: messages,
		Topics:   topics,
	}, nil
}

func (s *userService) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username, err := normalizeUsername(*input.Username)
		if err != nil {
			return nil, err
		}
		user.Username = username
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.DisplayName != nil {
		displayName := strings.TrimSpace(*input.DisplayName)
		if utf8.RuneCountInString(displayName) > maxDisplayName {
			return nil, fmt.Errorf("%w: display name is too long (max %d characters)", pkgerrors.ErrBadRequest, maxDisplayName)
		}
		user.DisplayName = displayName
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.AvatarURL != nil {
		avatarURL, err := normalizeAvatarURL(*input.AvatarURL)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = avatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User updated", "user_id", user.ID)
	return user, nil
}

// DeleteMe removes the account. Rooms and messages stay behind without an owner.
func (s *userService) DeleteMe(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.log.Info("User deleted", "user_id", userID)
	s.auditService.Record(ctx, &userID, domain.ActorRoleUser, nil, domain.EventTypeUserDeleted, map[string]interface{}{
		"username": user.Username,
	})

	return nil
}

func normalizeAvatarURL(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if len(raw) > maxAvatarURL {
		return nil, fmt.Errorf("%w: avatar URL is too long", pkgerrors.ErrBadRequest)
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: avatar URL must be an absolute http(s) URL", pkgerrors.ErrBadRequest)
	}

	return &raw, nil
}
