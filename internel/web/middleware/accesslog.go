package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thesammykins/r2-image-worker/pkg/log"
)

const requestIDHeader = "X-Request-Id"

// AccessLogMiddlewareBuilder tags every request with an id and logs one
// structured line when it completes.
type AccessLogMiddlewareBuilder struct{}

func NewAccessLogMiddlewareBuilder() *AccessLogMiddlewareBuilder {
	return &AccessLogMiddlewareBuilder{}
}

func (b *AccessLogMiddlewareBuilder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx.Set("request_id", requestID)
		ctx.Header(requestIDHeader, requestID)

		start := time.Now()
		ctx.Next()

		log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     ctx.Writer.Status(),
			"latency":    time.Since(start).String(),
		}).Info("request handled")
	}
}
