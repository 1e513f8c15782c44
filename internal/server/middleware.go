package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AnyUserName/picpack/internal/api"
	"github.com/AnyUserName/picpack/internal/pipeline"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerRequestID   = "X-Request-ID"
	headerCache       = "X-Cache"
	headerFingerprint = "X-Content-Fingerprint"
	headerETag        = "ETag"

	ctxRequestID = "request_id"

	routePlaceholder = "/v1/placeholder"
	routeResize      = "/v1/resize"
	routeFingerprint = "/v1/fingerprint"
)

// requestID reuses the caller's X-Request-ID or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
		}
		if v := c.Writer.Header().Get(headerCache); v != "" {
			fields = append(fields, zap.String("cache", v))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// recovery turns handler panics into the internal-failure record of the
// route that panicked.
func recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.String("request_id", c.GetString(ctxRequestID)),
					zap.String("route", c.FullPath()),
					zap.String("panic", fmt.Sprint(r)),
					zap.Stack("stack"))
				writeRecord(c, http.StatusInternalServerError, panicRecord(c.FullPath()))
				c.Abort()
			}
		}()
		c.Next()
	}
}

func panicRecord(route string) any {
	switch route {
	case routePlaceholder:
		return api.PlaceholderRecord{Error: pipeline.MsgPlaceholderEncode}
	case routeResize:
		return api.ResizeRecord{Error: pipeline.MsgResizeEncode}
	default:
		return gin.H{"error": http.StatusText(http.StatusInternalServerError)}
	}
}

// statusOf maps a pipeline failure to an HTTP status.
func statusOf(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.KindDecode, pipeline.KindOptions:
		return http.StatusBadRequest
	case pipeline.KindUnsupportedFormat:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeRecord(c *gin.Context, status int, v any) {
	data, err := api.Marshal(v)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}
