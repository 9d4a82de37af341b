package handler

import (
	"net/http"

	"studybud/internal/service"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	topicService service.TopicService
	log          logger.Logger
}

func NewTopicHandler(topicService service.TopicService, log logger.Logger) *TopicHandler {
	return &TopicHandler{
		topicService: topicService,
		log:          log,
	}
}

func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.topicService.Search(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
