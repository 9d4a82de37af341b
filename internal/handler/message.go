package handler

import (
	"net/http"

	"studybud/internal/service"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
	log            logger.Logger
}

func NewMessageHandler(messageService service.MessageService, log logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		log:            log,
	}
}

type MessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// Create posts a message to the room in the path and joins the author to it.
func (h *MessageHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, pkgerrors.ErrRoomNotFound)
	if !ok {
		return
	}
	var req MessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.messageService.Post(c.Request.Context(), roomID, userID, req.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, pkgerrors.ErrMessageNotFound)
	if !ok {
		return
	}
	var req MessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.messageService.Update(c.Request.Context(), messageID, userID, req.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, pkgerrors.ErrMessageNotFound)
	if !ok {
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), messageID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
