package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"studybud/internal/domain"
	"studybud/internal/repository"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"
)

const (
	maxTopicName  = 200
	maxTopicLimit = 100
)

type TopicService interface {
	// Resolve returns the topic with exactly this name, creating it if needed.
	// A blank name resolves to no topic.
	Resolve(ctx context.Context, name string) (*domain.Topic, error)
	Top(ctx context.Context, limit int) ([]*domain.TopicWithRooms, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.TopicWithRooms, error)
	Count(ctx context.Context) (int64, error)
}

type topicService struct {
	topicRepo repository.TopicRepository
	log       logger.Logger
}

func NewTopicService(topicRepo repository.TopicRepository, log logger.Logger) TopicService {
	return &topicService{
		topicRepo: topicRepo,
		log:       log,
	}
}

func (s *topicService) Resolve(ctx context.Context, name string) (*domain.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(name) > maxTopicName {
		return nil, fmt.Errorf("%w: topic name is too long (max %d characters)", pkgerrors.ErrBadRequest, maxTopicName)
	}

	return s.topicRepo.GetOrCreate(ctx, name)
}

func (s *topicService) Top(ctx context.Context, limit int) ([]*domain.TopicWithRooms, error) {
	return s.Search(ctx, "", limit)
}

func (s *topicService) Search(ctx context.Context, query string, limit int) ([]*domain.TopicWithRooms, error) {
	limit = clampLimit(limit, domain.DefaultTopTopics, maxTopicLimit)
	return s.topicRepo.Top(ctx, query, limit)
}

func (s *topicService) Count(ctx context.Context) (int64, error) {
	return s.topicRepo.Count(ctx)
}

// clampLimit maps non-positive limits to def and caps the rest at ceiling.
func clampLimit(limit, def, ceiling int) int {
	if limit <= 0 {
		return def
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}
