package service

import (
	"context"
	"time"

	"studybud/internal/domain"
	"studybud/internal/repository"
	"studybud/pkg/logger"

	"github.com/google/uuid"
)

// AuditService writes the audit trail. Recording is best effort: a failed
// write is logged and never fails the operation being audited.
type AuditService interface {
	LogEvent(ctx context.Context, actorUserID *uuid.UUID, actorRole string, roomID *uuid.UUID, eventType string, payload map[string]interface{}) error
	Record(ctx context.Context, actorUserID *uuid.UUID, actorRole string, roomID *uuid.UUID, eventType string, payload map[string]interface{})
}

type auditService struct {
	auditRepo repository.AuditRepository
	log       logger.Logger
}

func NewAuditService(auditRepo repository.AuditRepository, log logger.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		log:       log,
	}
}

func (s *auditService) LogEvent(ctx context.Context, actorUserID *uuid.UUID, actorRole string, roomID *uuid.UUID, eventType string, payload map[string]interface{}) error {
	if payload == nil {
		payload = make(map[string]interface{})
	}

	auditLog := &domain.AuditLog{
		EventTime:   time.Now().UTC(),
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		RoomID:      roomID,
		EventType:   eventType,
		Payload:     payload,
	}

	return s.auditRepo.CreateLog(ctx, auditLog)
}

func (s *auditService) Record(ctx context.Context, actorUserID *uuid.UUID, actorRole string, roomID *uuid.UUID, eventType string, payload map[string]interface{}) {
	if err := s.LogEvent(ctx, actorUserID, actorRole, roomID, eventType, payload); err != nil {
		s.log.Warn("Failed to record audit event", "error", err, "event_type", eventType)
	}
}
