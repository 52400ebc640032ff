package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"duso-api/internal/service"
	"duso-api/internal/transport/http/response"
)

// AdminHandler is the ops surface on the admin engine.
type AdminHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewAdminHandler(users *service.UserService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, log: log}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset := atoiDefault(c.Query("offset"), 0)
	limit := atoiDefault(c.Query("limit"), 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := h.users.List(c.Request.Context(), offset, limit)
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "items": items})
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
