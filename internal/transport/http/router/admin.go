package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"duso-api/internal/transport/http/handler"
	mdw "duso-api/internal/transport/http/middleware"
)

// NewAdminEngine serves the ops surface on its own port: health,
// prometheus metrics and an admin-only user listing.
func NewAdminEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(d.Log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(d.Log, true))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminH := handler.NewAdminHandler(d.Users, d.Log)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.Auth(d.JWTer, d.Users, true), mdw.RequireRole("admin"))
	admin.GET("/users", adminH.ListUsers)

	return r
}
