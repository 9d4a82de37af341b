package repository

import (
	"studybud/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	User      UserRepository
	Room      RoomRepository
	Message   MessageRepository
	Topic     TopicRepository
	Audit     AuditRepository
	RateLimit RateLimitRepository
}

// NewRepositories wires every repository. A nil redis client leaves RateLimit
// unset; callers treat that as rate limiting disabled.
func NewRepositories(db *gorm.DB, redis *redis.Client, log logger.Logger) *Repositories {
	repos := &Repositories{
		User:    NewUserRepository(db, log),
		Room:    NewRoomRepository(db, log),
		Message: NewMessageRepository(db, log),
		Topic:   NewTopicRepository(db, log),
		Audit:   NewAuditRepository(db, log),
	}

	if redis != nil {
		repos.RateLimit = NewRateLimitRepository(redis, log)
		log.Info("RateLimit repository initialized")
	} else {
		log.Warn("Redis client is nil, rate limiting disabled")
	}

	return repos
}
