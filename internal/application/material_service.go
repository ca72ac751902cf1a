package application

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/domain/entity"
	repo "github.com/a704/dodream-backend/internal/domain/repository"
)

type MaterialResponse struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

func MaterialResponseFrom(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		URL:         m.ObjectURL,
		ContentType: m.ContentType,
		CreatedAt:   m.CreatedAt,
	}
}

// UploadInput is one material file upload.
type UploadInput struct {
	Title       string
	Filename    string
	ContentType string
	Body        io.Reader
}

// MaterialService publishes teacher materials to object storage.
type MaterialService struct {
	Materials repo.MaterialRepository
	Users     repo.UserRepository
	Storage   ObjectStorage // nil disables uploads
	Logger    *logrus.Logger
}

func NewMaterialService(materials repo.MaterialRepository, users repo.UserRepository, storage ObjectStorage, logger *logrus.Logger) *MaterialService {
	return &MaterialService{Materials: materials, Users: users, Storage: storage, Logger: logger}
}

// Upload stores the file under materials/<owner>/<uuid><ext> and records it.
// Only teachers may upload.
func (s *MaterialService) Upload(ctx context.Context, ownerID string, in UploadInput) (MaterialResponse, error) {
	if s.Storage == nil {
		return MaterialResponse{}, ErrStorageDisabled
	}
	u, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return MaterialResponse{}, ErrUserNotFound
		}
		return MaterialResponse{}, err
	}
	if !u.IsTeacher() {
		return MaterialResponse{}, ErrNotATeacher
	}

	objectPath := "materials/" + ownerID + "/" + uuid.NewString() + strings.ToLower(path.Ext(in.Filename))
	url, err := s.Storage.Upload(ctx, objectPath, in.ContentType, in.Body)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("object", objectPath).Error("material upload failed")
		}
		return MaterialResponse{}, err
	}

	m := &entity.Material{OwnerID: ownerID, Title: in.Title, ObjectURL: url, ContentType: in.ContentType}
	if err := s.Materials.Create(ctx, m); err != nil {
		s.discardObject(ctx, objectPath)
		return MaterialResponse{}, err
	}
	return MaterialResponseFrom(m), nil
}

// discardObject removes an upload whose row was never stored. It runs even
// when ctx is already cancelled.
func (s *MaterialService) discardObject(ctx context.Context, objectPath string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.Storage.Delete(ctx, objectPath); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("object", objectPath).Warn("orphaned material object")
	}
}

func (s *MaterialService) Get(ctx context.Context, id int64) (MaterialResponse, error) {
	m, err := s.Materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return MaterialResponse{}, ErrMaterialNotFound
		}
		return MaterialResponse{}, err
	}
	return MaterialResponseFrom(m), nil
}
