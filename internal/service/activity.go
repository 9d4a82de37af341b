package service

import (
	"context"

	"studybud/internal/domain"
	"studybud/internal/repository"
	"studybud/pkg/logger"
)

const (
	DefaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityService serves the recent-messages feed.
type ActivityService interface {
	Recent(ctx context.Context, topicQuery string, limit int) ([]*domain.Message, error)
}

type activityService struct {
	messageRepo repository.MessageRepository
	log         logger.Logger
}

func NewActivityService(messageRepo repository.MessageRepository, log logger.Logger) ActivityService {
	return &activityService{
		messageRepo: messageRepo,
		log:         log,
	}
}

func (s *activityService) Recent(ctx context.Context, topicQuery string, limit int) ([]*domain.Message, error) {
	limit = clampLimit(limit, DefaultActivityLimit, maxActivityLimit)
	return s.messageRepo.Recent(ctx, topicQuery, limit)
}
