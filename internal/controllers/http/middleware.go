package http

import (
	"eshop/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
)

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it
// on the response. Error envelopes carry it as traceId.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// NewEngine builds a gin engine with the middleware every service uses.
func NewEngine(mode string) *gin.Engine {
	gin.SetMode(mode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID())
	r.NoRoute(func(c *gin.Context) {
		respondError(c, domain.NewResourceNotFound("Route", c.Request.URL.Path))
	})
	return r
}
