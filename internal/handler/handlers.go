package handler

import (
	"fmt"
	"strconv"

	"studybud/internal/middleware"
	"studybud/internal/service"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	User     *UserHandler
	Room     *RoomHandler
	Message  *MessageHandler
	Topic    *TopicHandler
	Activity *ActivityHandler
}

func NewHandlers(services *service.Services, db *gorm.DB, log logger.Logger) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(db, log),
		Auth:     NewAuthHandler(services.Auth, log),
		User:     NewUserHandler(services.User, log),
		Room:     NewRoomHandler(services.Room, log),
		Message:  NewMessageHandler(services.Message, log),
		Topic:    NewTopicHandler(services.Topic, log),
		Activity: NewActivityHandler(services.Activity, log),
	}
}

// bindJSON decodes the body into req, reporting failures as bad requests.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %s", pkgerrors.ErrBadRequest, err.Error()))
		return false
	}
	return true
}

// pathID parses the :id path parameter. An id that is not a UUID cannot name
// an existing row, so it is reported as notFound.
func pathID(c *gin.Context, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(notFound)
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		_ = c.Error(pkgerrors.ErrUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt returns 0 for a missing or malformed parameter so services apply their default.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func clientInfo(c *gin.Context) service.ClientInfo {
	return service.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
