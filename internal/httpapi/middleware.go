package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storyweave/internal/logger"
	"storyweave/internal/store"
)

const (
	headerRequestID = "X-Request-ID"
	headerActorID   = "X-Actor-ID"

	ctxRequestID = "request_id"
)

// RequestID keeps an inbound request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := c.GetString(ctxRequestID); id != "" {
			fields = append(fields, "request_id", id)
		}
		if actor := actorFrom(c); !actor.IsZero() {
			fields = append(fields, "actor", actor)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// actorFrom reads the identity set by the upstream authentication layer.
func actorFrom(c *gin.Context) store.ActorID {
	return store.ActorID(strings.TrimSpace(c.GetHeader(headerActorID)))
}
