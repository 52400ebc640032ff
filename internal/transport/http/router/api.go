package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"duso-api/internal/core/auth"
	"duso-api/internal/core/config"
	"duso-api/internal/service"
	"duso-api/internal/transport/http/handler"
	mdw "duso-api/internal/transport/http/middleware"
)

// Deps is the explicit constructor wiring for an engine. No container,
// no runtime lookup.
type Deps struct {
	Cfg    *config.Config
	Log    *zap.Logger
	JWTer  *auth.JWTer
	Auth   *service.AuthService
	Users  *service.UserService
	Topics *service.TopicService
}

func NewAPIEngine(d Deps) *gin.Engine {
	if !d.Cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.ProcessTime(),
		mdw.RateLimitPerIP(d.Cfg.RateLimit.PerMinute, d.Cfg.RateLimit.Burst),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		corsMiddleware(d.Cfg),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Welcome to " + d.Cfg.App.Name,
			"version":     "1.0.0",
			"environment": d.Cfg.App.Env,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"environment": d.Cfg.App.Env,
			"timestamp":   time.Now().Unix(),
		})
	})

	authH := handler.NewAuthHandler(d.Auth, d.Cfg, d.Log)
	userH := handler.NewUserHandler(d.Users, d.Auth, d.Log)
	topicH := handler.NewTopicHandler(d.Topics, d.Log)

	api := r.Group("/api/v1")

	// anonymous-tolerant: an invalid token just means no identity here
	api.Use(mdw.Auth(d.JWTer, d.Users, false))

	api.POST("/auth/signup", authH.Signup)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", authH.Logout)

	// endpoints that need an authenticated caller; the whole user
	// resource sits here, signup is the only way to create the first
	// account
	authed := r.Group("/api/v1")
	authed.Use(mdw.Auth(d.JWTer, d.Users, true))

	authed.POST("/auth/refresh", authH.Refresh)

	authed.POST("/users", userH.Create)
	authed.GET("/users/me", userH.Me)
	authed.GET("/users/:id", userH.Get)
	authed.PUT("/users/:id", userH.Update)
	authed.POST("/users/:id/verify-email", userH.VerifyEmail)
	authed.PUT("/users/:id/preferences", userH.UpdatePreferences)

	authed.POST("/topics", topicH.Create)
	authed.GET("/topics", topicH.List)
	authed.GET("/topics/:id", topicH.Get)
	authed.PATCH("/topics/:id", topicH.Update)
	authed.DELETE("/topics/:id", topicH.Delete)

	return r
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(cfg.CORS.Origins) == 1 && cfg.CORS.Origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORS.Origins
		c.AllowCredentials = true
	}
	return cors.New(c)
}
