package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"duso-api/internal/domain"
	"duso-api/internal/service"
	"duso-api/internal/transport/http/middleware"
	"duso-api/internal/transport/http/response"
)

// TopicHandler serves the per-user topic resources. Every route here is
// mounted behind required auth; the caller id comes off the context and
// scopes creation, listing and the ownership checks.
type TopicHandler struct {
	topics *service.TopicService
	log    *zap.Logger
}

func NewTopicHandler(topics *service.TopicService, log *zap.Logger) *TopicHandler {
	return &TopicHandler{topics: topics, log: log}
}

type topicCreateReq struct {
	Title       string `json:"title" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

func (h *TopicHandler) Create(c *gin.Context) {
	var in topicCreateReq
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	t, err := h.topics.Create(c.Request.Context(), c.GetString(middleware.KeyUserID), in.Title, in.Description)
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TopicHandler) Get(c *gin.Context) {
	t, err := h.topics.Get(c.Request.Context(), c.Param("id"), c.GetString(middleware.KeyUserID))
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.topics.ListForUser(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

type topicUpdateReq struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

func (h *TopicHandler) Update(c *gin.Context) {
	var in topicUpdateReq
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	t, err := h.topics.Update(c.Request.Context(), c.Param("id"), c.GetString(middleware.KeyUserID), domain.TopicUpdate{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TopicHandler) Delete(c *gin.Context) {
	err := h.topics.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.KeyUserID))
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
