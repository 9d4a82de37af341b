package handler

import (
	"net/http"

	"studybud/internal/service"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService service.RoomService
	log         logger.Logger
}

func NewRoomHandler(roomService service.RoomService, log logger.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		log:         log,
	}
}

type RoomRequest struct {
	Topic       string `json:"topic"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (r RoomRequest) input() service.RoomInput {
	return service.RoomInput{
		Topic:       r.Topic,
		Name:        r.Name,
		Description: r.Description,
	}
}

// Home serves the landing page: rooms matching ?q= with the topic and activity sidebars.
func (h *RoomHandler) Home(c *gin.Context) {
	home, err := h.roomService.Home(c.Request.Context(), c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, home)
}

func (h *RoomHandler) Get(c *gin.Context) {
	roomID, ok := pathID(c, pkgerrors.ErrRoomNotFound)
	if !ok {
		return
	}

	detail, err := h.roomService.Detail(c.Request.Context(), roomID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RoomHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req RoomRequest
	if !bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, pkgerrors.ErrRoomNotFound)
	if !ok {
		return
	}
	var req RoomRequest
	if !bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.Update(c.Request.Context(), roomID, userID, req.input())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, pkgerrors.ErrRoomNotFound)
	if !ok {
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), roomID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	h.log.Info("Room deleted", "room_id", roomID, "user_id", userID)
	c.Status(http.StatusNoContent)
}
