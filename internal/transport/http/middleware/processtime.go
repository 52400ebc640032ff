package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type timingWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *timingWriter) stamp() {
	if !w.stamped {
		w.stamped = true
		elapsed := time.Since(w.start).Seconds()
		w.Header().Set("X-Process-Time", strconv.FormatFloat(elapsed, 'f', -1, 64))
	}
}

func (w *timingWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

// ProcessTime exposes handling latency as an X-Process-Time header,
// stamped just before the first byte of the response goes out.
func ProcessTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &timingWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Next()
	}
}
