package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"duso-api/internal/domain"
)

// Detail is the error body shape: {"detail": "..."}.
func Detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

// AbortAuth writes a 401 with the bearer challenge and stops the chain.
func AbortAuth(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msg})
}

// WriteError is the single point where domain error kinds become HTTP
// statuses. Services raise kinds; nothing below this layer knows about
// status codes. Unclassified errors become a fixed generic 500 and are
// logged with full detail server-side only.
func WriteError(c *gin.Context, log *zap.Logger, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		Detail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch de.Kind {
	case domain.KindValidation:
		Detail(c, http.StatusBadRequest, de.Msg)
	case domain.KindNotFound:
		Detail(c, http.StatusNotFound, de.Msg)
	case domain.KindAuth:
		c.Header("WWW-Authenticate", "Bearer")
		Detail(c, http.StatusUnauthorized, de.Msg)
	default:
		// The wrapped cause stays in the log, never in the body.
		log.Error("database error", zap.String("path", c.FullPath()), zap.Error(err))
		Detail(c, http.StatusInternalServerError, de.Msg)
	}
}
