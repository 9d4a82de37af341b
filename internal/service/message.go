package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studybud/internal/domain"
	"studybud/internal/repository"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/google/uuid"
)

type MessageService interface {
	Post(ctx context.Context, roomID, userID uuid.UUID, body string) (*domain.Message, error)
	Update(ctx context.Context, messageID, userID uuid.UUID, body string) (*domain.Message, error)
	Delete(ctx context.Context, messageID, userID uuid.UUID) error
}

type messageService struct {
	messageRepo  repository.MessageRepository
	roomRepo     repository.RoomRepository
	auditService AuditService
	log          logger.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, roomRepo repository.RoomRepository, auditService AuditService, log logger.Logger) MessageService {
	return &messageService{
		messageRepo:  messageRepo,
		roomRepo:     roomRepo,
		auditService: auditService,
		log:          log,
	}
}

// Post adds a message to the room; the author becomes a participant.
func (s *messageService) Post(ctx context.Context, roomID, userID uuid.UUID, body string) (*domain.Message, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	message := &domain.Message{
		ID:        uuid.New(),
		UserID:    &userID,
		RoomID:    roomID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, domain.ActorRoleAuthor, &roomID, domain.EventTypeMessagePosted, map[string]interface{}{
		"message_id": message.ID.String(),
		"preview":    message.Preview(),
	})

	return s.messageRepo.GetByID(ctx, message.ID)
}

func (s *messageService) Update(ctx context.Context, messageID, userID uuid.UUID, body string) (*domain.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if !message.IsAuthoredBy(userID) {
		s.log.Warn("Message update denied", "message_id", messageID, "user_id", userID)
		return nil, fmt.Errorf("%w: only the author can edit this message", pkgerrors.ErrForbidden)
	}

	body, err = validateBody(body)
	if err != nil {
		return nil, err
	}

	message.Body = body
	if err := s.messageRepo.UpdateBody(ctx, message); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, domain.ActorRoleAuthor, &message.RoomID, domain.EventTypeMessageUpdated, map[string]interface{}{
		"message_id": message.ID.String(),
	})

	return message, nil
}

func (s *messageService) Delete(ctx context.Context, messageID, userID uuid.UUID) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if !message.IsAuthoredBy(userID) {
		s.log.Warn("Message delete denied", "message_id", messageID, "user_id", userID)
		return fmt.Errorf("%w: only the author can delete this message", pkgerrors.ErrForbidden)
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.auditService.Record(ctx, &userID, domain.ActorRoleAuthor, &message.RoomID, domain.EventTypeMessageDeleted, map[string]interface{}{
		"message_id": message.ID.String(),
	})

	return nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: message body is required", pkgerrors.ErrBadRequest)
	}
	return body, nil
}
