package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studybud/internal/database"
	"studybud/internal/domain"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateSession(ctx context.Context, session *domain.UserSession) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.UserSession, error)
	RevokeSession(ctx context.Context, sessionID uuid.UUID, reason string) error
}

type userRepository struct {
	db  *gorm.DB
	log logger.Logger
}

func NewUserRepository(db *gorm.DB, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.log.Warn("User already exists (unique violation)", "username", user.Username)
			return pkgerrors.ErrUserAlreadyExists
		}
		r.log.Error("Failed to create user", "error", err, "username", user.Username)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *userRepository) getBy(ctx context.Context, cond string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.WithContext(ctx).Where(cond, arg).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		r.log.Error("Failed to get user", "error", err)
		return nil, err
	}

	return user, nil
}

// Update writes the editable profile fields.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&domain.User{ID: user.ID}).
		Select("username", "email", "display_name", "bio", "avatar_url", "updated_at").
		Updates(user)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return pkgerrors.ErrUserAlreadyExists
		}
		r.log.Error("Failed to update user", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
	if err != nil {
		r.log.Error("Failed to update last login", "error", err)
		return err
	}

	return nil
}

// Delete removes the user. Hosted rooms and authored messages survive with
// their host/author cleared; memberships and sessions are removed.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Room{}).Where("host_id = ?", id).UpdateColumn("host_id", nil).Error; err != nil {
			return fmt.Errorf("detach hosted rooms: %w", err)
		}
		if err := tx.Model(&domain.Message{}).Where("user_id = ?", id).UpdateColumn("user_id", nil).Error; err != nil {
			return fmt.Errorf("detach messages: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.RoomParticipant{}).Error; err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.UserSession{}).Error; err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&domain.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrUserNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, pkgerrors.ErrUserNotFound) {
		r.log.Error("Failed to delete user", "error", err, "user_id", id)
	}

	return err
}

func (r *userRepository) CreateSession(ctx context.Context, session *domain.UserSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		r.log.Error("Failed to create session", "error", err)
		return err
	}

	return nil
}

// GetSessionByTokenHash returns the session only while it is neither revoked nor expired.
func (r *userRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.UserSession, error) {
	session := &domain.UserSession{}
	err := r.db.WithContext(ctx).
		Where("refresh_token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, time.Now().UTC()).
		First(session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrSessionNotFound
		}
		r.log.Error("Failed to get session", "error", err)
		return nil, err
	}

	return session, nil
}

func (r *userRepository) RevokeSession(ctx context.Context, sessionID uuid.UUID, reason string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.UserSession{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Updates(map[string]interface{}{
			"revoked_at":     time.Now().UTC(),
			"revoked_reason": reason,
		}).Error
	if err != nil {
		r.log.Error("Failed to revoke session", "error", err)
		return err
	}

	return nil
}
