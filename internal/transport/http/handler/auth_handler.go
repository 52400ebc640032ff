package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"duso-api/internal/core/config"
	"duso-api/internal/service"
	"duso-api/internal/transport/http/middleware"
	"duso-api/internal/transport/http/response"
)

type AuthHandler struct {
	auth *service.AuthService
	cfg  *config.Config
	log  *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg, log: log}
}

type signupReq struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	FullName        string `json:"full_name" binding:"required,min=2,max=100"`
	PhoneNumber     string `json:"phone_number" binding:"omitempty,phone"`
	Role            string `json:"role" binding:"omitempty,oneof=user admin"`
}

// Signup registers a new account. 201 with the public projection.
func (h *AuthHandler) Signup(c *gin.Context) {
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

type loginReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login accepts the OAuth2-style form (username = email) and returns the
// access token, also planting it in the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBind(&in); err != nil {
		response.Detail(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	token, err := h.auth.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; there is no revocation.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.writeSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Refresh reissues a token for the identified caller. The old token is
// untouched and remains valid for its own TTL.
func (h *AuthHandler) Refresh(c *gin.Context) {
	uid := c.GetString(middleware.KeyUserID)
	token, err := h.auth.Refresh(c.Request.Context(), uid)
	if err != nil {
		response.WriteError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	h.writeSessionCookie(c, "Bearer "+token, h.cfg.JWT.AccessTokenTTLMin*60)
}

// writeSessionCookie goes through http.SetCookie directly so the value
// keeps its literal "Bearer <token>" shape on the wire instead of being
// percent-encoded; non-Go consumers read it as-is.
func (h *AuthHandler) writeSessionCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   h.cfg.Cookie.Secure,
		HttpOnly: true,
		SameSite: h.sameSite(),
	})
}

func (h *AuthHandler) sameSite() http.SameSite {
	switch h.cfg.Cookie.SameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
