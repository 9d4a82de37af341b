// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"testing"
	"time"

	"studybud/internal/config"
	"studybud/internal/database"
	"studybud/internal/domain"
	"studybud/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database that is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	log := logger.NewNop()
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:?_foreign_keys=on",
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db, cfg.Driver, log); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

func CreateTopic(t testing.TB, db *gorm.DB, name string) *domain.Topic {
	t.Helper()

	topic := &domain.Topic{ID: uuid.New(), Name: name}
	if err := db.Create(topic).Error; err != nil {
		t.Fatalf("failed to create topic %q: %v", name, err)
	}
	return topic
}

// CreateRoom inserts a room with an explicit update time so ordering is deterministic.
func CreateRoom(t testing.TB, db *gorm.DB, host *domain.User, topic *domain.Topic, name string, updatedAt time.Time) *domain.Room {
	t.Helper()

	room := &domain.Room{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	if host != nil {
		room.HostID = &host.ID
	}
	if topic != nil {
		room.TopicID = &topic.ID
	}
	if err := db.Omit("Host", "Topic", "Participants").Create(room).Error; err != nil {
		t.Fatalf("failed to create room %q: %v", name, err)
	}
	return room
}

func CreateMessage(t testing.TB, db *gorm.DB, author *domain.User, room *domain.Room, body string, createdAt time.Time) *domain.Message {
	t.Helper()

	msg := &domain.Message{
		ID:        uuid.New(),
		RoomID:    room.ID,
		Body:      body,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if author != nil {
		msg.UserID = &author.ID
	}
	if err := db.Omit("User", "Room").Create(msg).Error; err != nil {
		t.Fatalf("failed to create message: %v", err)
	}
	return msg
}
