package service

import (
	"studybud/internal/config"
	"studybud/internal/repository"
	"studybud/pkg/logger"
)

type Services struct {
	Auth      AuthService
	User      UserService
	Room      RoomService
	Message   MessageService
	Topic     TopicService
	Activity  ActivityService
	RateLimit RateLimitService
	Audit     AuditService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	audit := NewAuditService(repos.Audit, log)
	topics := NewTopicService(repos.Topic, log)
	activity := NewActivityService(repos.Message, log)

	services := &Services{
		Auth:     NewAuthService(repos.User, audit, cfg.JWT, log),
		User:     NewUserService(repos.User, repos.Room, repos.Message, topics, audit, log),
		Room:     NewRoomService(repos.Room, repos.Message, topics, activity, audit, log),
		Message:  NewMessageService(repos.Message, repos.Room, audit, log),
		Topic:    topics,
		Activity: activity,
		Audit:    audit,
	}

	if repos.RateLimit != nil {
		services.RateLimit = NewRateLimitService(repos.RateLimit, log)
	} else {
		log.Warn("RateLimit repository is nil, rate limit service not initialized")
	}

	return services
}
