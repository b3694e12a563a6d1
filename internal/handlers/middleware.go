package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-api/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propaga el X-Request-ID del cliente o asigna uno nuevo, y lo
// guarda en el contexto de la petición para los logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// RequestLogger escribe una línea por petición, en warn para 4xx y error para
// 5xx.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		ctx := c.Request.Context()

		event := logger.Info(ctx)
		switch {
		case status >= 500:
			event = logger.Error(ctx)
		case status >= 400:
			event = logger.Warn(ctx)
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", duration).
			Int64("duration_ms", duration.Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}
