package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func scrub(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "authorization") || strings.Contains(lk, "cookie") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}

// RequestLogger logs each request twice: headers on entry at debug, with
// credentials redacted, and the outcome on completion.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := RequestIDFrom(c)

		if ce := log.Check(zap.DebugLevel, "incoming request"); ce != nil {
			hdr, _ := json.Marshal(scrub(c.Request.Header))
			ce.Write(
				zap.String("request_id", rid),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("origin", c.GetHeader("Origin")),
				zap.ByteString("hdr", hdr),
			)
		}

		ts := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(ts)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		}

		for _, e := range c.Errors {
			log.Error("handler error", append(fields, zap.Error(e.Err))...)
		}

		switch {
		case c.IsAborted():
			log.Warn("aborted", fields...)
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("completed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("completed", fields...)
		default:
			log.Info("completed", fields...)
		}
	}
}
