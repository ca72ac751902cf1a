package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/application"
	"github.com/a704/dodream-backend/internal/interface/middleware"
	"github.com/a704/dodream-backend/pkg/response"
	"github.com/a704/dodream-backend/pkg/validation"
)

type Bookmarks interface {
	Toggle(ctx context.Context, userID string, in application.BookmarkInput) (application.BookmarkResponse, error)
	List(ctx context.Context, userID string) ([]application.BookmarkResponse, error)
}

type BookmarkHandler struct {
	Svc    Bookmarks
	Logger *logrus.Logger
}

func NewBookmarkHandler(svc Bookmarks, logger *logrus.Logger) *BookmarkHandler {
	return &BookmarkHandler{Svc: svc, Logger: logger}
}

type toggleBookmarkRequest struct {
	MaterialID int64  `json:"material_id" binding:"required,gt=0"`
	TitleID    string `json:"title_id" binding:"required,max=64"`
	STitleID   string `json:"stitle_id" binding:"required,max=64"`
}

// Toggle POST /api/bookmarks/toggle
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	var req toggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Toggle(c.Request.Context(), c.GetString(middleware.CtxUserID), application.BookmarkInput{
		MaterialID: req.MaterialID,
		TitleID:    req.TitleID,
		STitleID:   req.STitleID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	msg := "bookmark removed"
	if res.Bookmarked {
		msg = "bookmark added"
	}
	response.Success(c, http.StatusOK, res, msg, nil)
}

// List GET /api/bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, items, "bookmarks", gin.H{"count": len(items)})
}
