package handler

import (
	"net/http"

	"studybud/internal/service"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService service.ActivityService
	log             logger.Logger
}

func NewActivityHandler(activityService service.ActivityService, log logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		log:             log,
	}
}

func (h *ActivityHandler) List(c *gin.Context) {
	messages, err := h.activityService.Recent(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": messages})
}
