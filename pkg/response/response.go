package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware writes.
const RequestIDKey = "request_id"

// Envelope wraps every JSON body the API writes.
type Envelope[T any] struct {
	Status    int        `json:"status"`
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Data      T          `json:"data,omitempty"`
	Meta      any        `json:"meta,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ErrorBody is the error object. Code is a stable machine-readable name.
type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, Envelope[T]{
		Status:    status,
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
		RequestID: ctx.GetString(RequestIDKey),
		Timestamp: time.Now().UTC(),
	})
}

func Error(ctx *gin.Context, status int, code, message string, details any) {
	body := failure(ctx, status, code, message, details)
	ctx.JSON(body.Status, body)
}

// Abort writes the error and stops the handler chain; for middleware.
func Abort(ctx *gin.Context, status int, code, message string) {
	body := failure(ctx, status, code, message, nil)
	ctx.AbortWithStatusJSON(body.Status, body)
}

func failure(ctx *gin.Context, status int, code, message string, details any) Envelope[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return Envelope[any]{
		Status:    status,
		Message:   message,
		Error:     &ErrorBody{Code: code, Details: details},
		RequestID: ctx.GetString(RequestIDKey),
		Timestamp: time.Now().UTC(),
	}
}
