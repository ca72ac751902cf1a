package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a704/dodream-backend/pkg/response"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware tags each request with an id, stores it for the
// response envelope and echoes it in X-Request-ID. A caller-supplied id is
// kept only when it parses as a UUID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(HeaderRequestID))
		if err != nil {
			id = uuid.New()
		}
		c.Set(response.RequestIDKey, id.String())
		c.Header(HeaderRequestID, id.String())
		c.Next()
	}
}
