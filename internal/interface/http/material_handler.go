package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/application"
	"github.com/a704/dodream-backend/internal/interface/middleware"
	"github.com/a704/dodream-backend/pkg/response"
)

// MaxMaterialSize caps a single uploaded material file.
const MaxMaterialSize = 20 << 20

type Materials interface {
	Upload(ctx context.Context, ownerID string, in application.UploadInput) (application.MaterialResponse, error)
	Get(ctx context.Context, id int64) (application.MaterialResponse, error)
}

type MaterialHandler struct {
	Svc    Materials
	Logger *logrus.Logger
}

func NewMaterialHandler(svc Materials, logger *logrus.Logger) *MaterialHandler {
	return &MaterialHandler{Svc: svc, Logger: logger}
}

// Upload POST /api/materials (multipart: title, file)
func (h *MaterialHandler) Upload(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	fh, err := c.FormFile("file")
	if err != nil || title == "" {
		invalidPayload(c, gin.H{"file": "is required", "title": "is required"})
		return
	}
	if fh.Size > MaxMaterialSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		invalidPayload(c, gin.H{"file": "unreadable"})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	res, err := h.Svc.Upload(c.Request.Context(), c.GetString(middleware.CtxUserID), application.UploadInput{
		Title:       title,
		Filename:    fh.Filename,
		ContentType: contentType,
		Body:        f,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "material uploaded", nil)
}

// Get GET /api/materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		invalidPayload(c, gin.H{"id": "must be a positive integer"})
		return
	}
	res, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "material", nil)
}
