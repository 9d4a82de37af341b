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

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	Search(ctx context.Context, query string) ([]*domain.Room, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error
	GetParticipants(ctx context.Context, roomID uuid.UUID) ([]*domain.User, error)
}

type roomRepository struct {
	db  *gorm.DB
	log logger.Logger
}

func NewRoomRepository(db *gorm.DB, log logger.Logger) RoomRepository {
	return &roomRepository{db: db, log: log}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(room).Error; err != nil {
		r.log.Error("Failed to create room", "error", err)
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room := &domain.Room{}
	err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("Topic").
		Where("id = ?", id).
		First(room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrRoomNotFound
		}
		r.log.Error("Failed to get room", "error", err, "room_id", id)
		return nil, err
	}

	return room, nil
}

// Search returns rooms whose topic name, name or description contains query,
// ignoring case, most recently updated first. An empty query matches every room.
func (r *roomRepository) Search(ctx context.Context, query string) ([]*domain.Room, error) {
	db := r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Select("rooms.*").
		Preload("Host").
		Preload("Topic").
		Joins("LEFT JOIN topics ON topics.id = rooms.topic_id")

	if query != "" {
		pattern := containsPattern(query)
		db = db.Where(
			"LOWER(topics.name) LIKE ? ESCAPE '!' OR LOWER(rooms.name) LIKE ? ESCAPE '!' OR LOWER(rooms.description) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}

	var rooms []*domain.Room
	err := db.Order("rooms.updated_at DESC").Order("rooms.created_at DESC").Find(&rooms).Error
	if err != nil {
		r.log.Error("Failed to search rooms", "error", err, "query", query)
		return nil, err
	}

	return rooms, nil
}

func (r *roomRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*domain.Room, error) {
	var rooms []*domain.Room
	err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("Topic").
		Where("host_id = ?", hostID).
		Order("updated_at DESC").
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		r.log.Error("Failed to list hosted rooms", "error", err, "host_id", hostID)
		return nil, err
	}

	return rooms, nil
}

// Update writes name, description and topic. The host never changes.
func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	room.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&domain.Room{ID: room.ID}).
		Select("name", "description", "topic_id", "updated_at").
		Updates(room)
	if result.Error != nil {
		r.log.Error("Failed to update room", "error", result.Error, "room_id", room.ID)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrRoomNotFound
	}

	return nil
}

// Delete removes the room together with its messages and memberships.
func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.RoomParticipant{}).Error; err != nil {
			return fmt.Errorf("delete participants: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&domain.Room{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrRoomNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, pkgerrors.ErrRoomNotFound) {
		r.log.Error("Failed to delete room", "error", err, "room_id", id)
	}

	return err
}

// AddParticipant is idempotent: joining twice keeps the first join time.
func (r *roomRepository) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	return addParticipant(r.db.WithContext(ctx), roomID, userID)
}

func addParticipant(db *gorm.DB, roomID, userID uuid.UUID) error {
	participant := &domain.RoomParticipant{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(participant).Error
}

// GetParticipants lists room members in join order.
func (r *roomRepository) GetParticipants(ctx context.Context, roomID uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("users.*").
		Joins("JOIN room_participants ON room_participants.user_id = users.id").
		Where("room_participants.room_id = ?", roomID).
		Order("room_participants.joined_at ASC").
		Find(&users).Error
	if err != nil {
		r.log.Error("Failed to get participants", "error", err, "room_id", roomID)
		return nil, err
	}

	return users, nil
}
