package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID propagates the caller's X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx.Set(requestIDKey, id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// Logger writes one access log line per request.
func Logger(log *logrus.Entry) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		entry := log.WithFields(logrus.Fields{
			"request_id": ctx.GetString(requestIDKey),
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     ctx.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  ctx.ClientIP(),
		})
		if len(ctx.Errors) > 0 {
			entry.WithField("errors", ctx.Errors.String()).Warn("request finished with errors")
			return
		}
		entry.Info("request")
	}
}

func requestLog(ctx *gin.Context, log *logrus.Entry) *logrus.Entry {
	return log.WithField("request_id", ctx.GetString(requestIDKey))
}
