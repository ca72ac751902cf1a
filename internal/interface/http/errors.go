package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/application"
	"github.com/a704/dodream-backend/pkg/helpers"
	"github.com/a704/dodream-backend/pkg/response"
)

type errorMapping struct {
	status int
	code   string
}

var errorMappings = []struct {
	err error
	errorMapping
}{
	{application.ErrIdentityMismatch, errorMapping{http.StatusBadRequest, "IDENTITY_MISMATCH"}},
	{application.ErrEmailAlreadyUsed, errorMapping{http.StatusBadRequest, "EMAIL_ALREADY_USED"}},
	{application.ErrInvalidCredentials, errorMapping{http.StatusBadRequest, "INVALID_CREDENTIALS"}},
	{application.ErrNotATeacher, errorMapping{http.StatusConflict, "NOT_A_TEACHER"}},
	{application.ErrUserNotFound, errorMapping{http.StatusNotFound, "USER_NOT_FOUND"}},
	{application.ErrMaterialNotFound, errorMapping{http.StatusNotFound, "MATERIAL_NOT_FOUND"}},
	{application.ErrStorageDisabled, errorMapping{http.StatusServiceUnavailable, "STORAGE_DISABLED"}},
	{helpers.ErrPasswordTooLong, errorMapping{http.StatusBadRequest, "INVALID_PAYLOAD"}},
}

// writeError maps application errors to HTTP responses. Anything unmapped is
// logged and returned as a bare 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, m.err.Error(), nil)
			return
		}
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(response.RequestIDKey),
		}).Error("request failed")
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}

func invalidPayload(c *gin.Context, details any) {
	response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", details)
}
