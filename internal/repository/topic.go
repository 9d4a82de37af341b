package repository

import (
	"context"
	"fmt"

	"studybud/internal/domain"
	"studybud/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TopicRepository interface {
	GetOrCreate(ctx context.Context, name string) (*domain.Topic, error)
	Top(ctx context.Context, query string, limit int) ([]*domain.TopicWithRooms, error)
	Count(ctx context.Context) (int64, error)
}

type topicRepository struct {
	db  *gorm.DB
	log logger.Logger
}

func NewTopicRepository(db *gorm.DB, log logger.Logger) TopicRepository {
	return &topicRepository{db: db, log: log}
}

// GetOrCreate returns the topic with exactly this name, creating it on first use.
func (r *topicRepository) GetOrCreate(ctx context.Context, name string) (*domain.Topic, error) {
	topic := &domain.Topic{}
	err := r.db.WithContext(ctx).
		Where(domain.Topic{Name: name}).
		Attrs(domain.Topic{ID: uuid.New()}).
		FirstOrCreate(topic).Error
	if err != nil {
		r.log.Error("Failed to resolve topic", "error", err, "name", name)
		return nil, fmt.Errorf("failed to resolve topic: %w", err)
	}

	return topic, nil
}

// Top ranks topics by how many rooms use them, ties broken by name.
// Topics without rooms are included with a zero count.
func (r *topicRepository) Top(ctx context.Context, query string, limit int) ([]*domain.TopicWithRooms, error) {
	db := r.db.WithContext(ctx).
		Table("topics").
		Select("topics.id, topics.name, topics.created_at, COUNT(rooms.id) AS room_count").
		Joins("LEFT JOIN rooms ON rooms.topic_id = topics.id").
		Group("topics.id, topics.name, topics.created_at").
		Order("room_count DESC").
		Order("topics.name ASC")
	if query != "" {
		db = db.Where("LOWER(topics.name) LIKE ? ESCAPE '!'", containsPattern(query))
	}

	var topics []*domain.TopicWithRooms
	if err := db.Limit(limit).Scan(&topics).Error; err != nil {
		r.log.Error("Failed to rank topics", "error", err)
		return nil, err
	}

	return topics, nil
}

func (r *topicRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Topic{}).Count(&count).Error; err != nil {
		r.log.Error("Failed to count topics", "error", err)
		return 0, err
	}

	return count, nil
}
