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

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
	log   *zap.Logger
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, auth: auth, log: log}
}

// Create shares the registration path with signup; account creation is
// the auth service's job either way.
func (h *UserHandler) Create(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:       in.Email,
		Password:    in.Password,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Role:        in.Role,
	})
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Get(c *gin.Context) {
	view, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type userUpdateReq struct {
	Email       *string        `json:"email" binding:"omitempty,email"`
	FullName    *string        `json:"full_name" binding:"omitempty,min=2,max=100"`
	PhoneNumber *string        `json:"phone_number" binding:"omitempty,phone"`
	Role        *string        `json:"role" binding:"omitempty,oneof=user admin"`
	IsActive    *bool          `json:"is_active"`
	Preferences domain.JSONMap `json:"preferences"`
}

func (h *UserHandler) Update(c *gin.Context) {
	var in userUpdateReq
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.users.Update(c.Request.Context(), c.Param("id"), domain.UserUpdate{
		Email:       in.Email,
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Role:        in.Role,
		IsActive:    in.IsActive,
		Preferences: in.Preferences,
	})
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) VerifyEmail(c *gin.Context) {
	view, err := h.users.VerifyEmail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var prefs domain.JSONMap
	if err := c.ShouldBindJSON(&prefs); err != nil {
		response.Detail(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.users.UpdatePreferences(c.Request.Context(), c.Param("id"), prefs)
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Me returns the caller's own record; mounted behind required auth.
func (h *UserHandler) Me(c *gin.Context) {
	view, err := h.users.Get(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
