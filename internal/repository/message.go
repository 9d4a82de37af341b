package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studybud/internal/domain"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.Message, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Message, error)
	Recent(ctx context.Context, topicQuery string, limit int) ([]*domain.Message, error)
	UpdateBody(ctx context.Context, message *domain.Message) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type messageRepository struct {
	db  *gorm.DB
	log logger.Logger
}

func NewMessageRepository(db *gorm.DB, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

// Create stores the message and makes its author a participant of the room
// in the same transaction.
func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(message).Error; err != nil {
			return err
		}
		if message.UserID == nil {
			return nil
		}
		if err := addParticipant(tx, message.RoomID, *message.UserID); err != nil {
			return fmt.Errorf("add participant: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to create message", "error", err, "room_id", message.RoomID)
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	message := &domain.Message{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Where("id = ?", id).
		First(message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrMessageNotFound
		}
		r.log.Error("Failed to get message", "error", err, "message_id", id)
		return nil, err
	}

	return message, nil
}

// ListByRoom returns the room's conversation, newest first.
func (r *messageRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		r.log.Error("Failed to list room messages", "error", err, "room_id", roomID)
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Preload("Room.Topic").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		r.log.Error("Failed to list user messages", "error", err, "user_id", userID)
		return nil, err
	}

	return messages, nil
}

// Recent is the activity feed: latest messages across all rooms, optionally
// restricted to rooms whose topic name contains topicQuery.
func (r *messageRepository) Recent(ctx context.Context, topicQuery string, limit int) ([]*domain.Message, error) {
	db := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Select("messages.*").
		Preload("User").
		Preload("Room").
		Preload("Room.Topic")

	if topicQuery != "" {
		db = db.
			Joins("JOIN rooms ON rooms.id = messages.room_id").
			Joins("JOIN topics ON topics.id = rooms.topic_id").
			Where("LOWER(topics.name) LIKE ? ESCAPE '!'", containsPattern(topicQuery))
	}

	var messages []*domain.Message
	err := db.Order("messages.created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		r.log.Error("Failed to list recent messages", "error", err)
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) UpdateBody(ctx context.Context, message *domain.Message) error {
	message.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", message.ID).
		UpdateColumns(map[string]interface{}{
			"body":       message.Body,
			"updated_at": message.UpdatedAt,
		})
	if result.Error != nil {
		r.log.Error("Failed to update message", "error", result.Error, "message_id", message.ID)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrMessageNotFound
	}

	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Message{})
	if result.Error != nil {
		r.log.Error("Failed to delete message", "error", result.Error, "message_id", id)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrMessageNotFound
	}

	return nil
}
