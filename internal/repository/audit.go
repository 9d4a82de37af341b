package repository

import (
	"context"

	"studybud/internal/domain"
	"studybud/pkg/logger"

	"gorm.io/gorm"
)

type AuditRepository interface {
	CreateLog(ctx context.Context, log *domain.AuditLog) error
}

type auditRepository struct {
	db  *gorm.DB
	log logger.Logger
}

func NewAuditRepository(db *gorm.DB, log logger.Logger) AuditRepository {
	return &auditRepository{db: db, log: log}
}

func (r *auditRepository) CreateLog(ctx context.Context, auditLog *domain.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(auditLog).Error; err != nil {
		r.log.Error("Failed to create audit log", "error", err, "event_type", auditLog.EventType)
		return err
	}

	return nil
}
