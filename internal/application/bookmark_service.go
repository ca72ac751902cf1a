package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/domain/entity"
	repo "github.com/a704/dodream-backend/internal/domain/repository"
)

// BookmarkResponse is the API shape of a bookmark.
type BookmarkResponse struct {
	ID         int64     `json:"id"`
	MaterialID int64     `json:"materialId"`
	TitleID    string    `json:"titleId"`
	STitleID   string    `json:"stitleId"`
	Bookmarked bool      `json:"bookmarked"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookmarkResponseFrom maps a stored bookmark. bookmarked reports whether it still exists.
func BookmarkResponseFrom(b *entity.Bookmark, bookmarked bool) BookmarkResponse {
	return BookmarkResponse{
		ID:         b.ID,
		MaterialID: b.MaterialID,
		TitleID:    b.TitleID,
		STitleID:   b.STitleID,
		Bookmarked: bookmarked,
		CreatedAt:  b.CreatedAt,
	}
}

// BookmarkInput identifies a position inside a material.
type BookmarkInput struct {
	MaterialID int64
	TitleID    string
	STitleID   string
}

type BookmarkService struct {
	Bookmarks repo.BookmarkRepository
	Materials repo.MaterialRepository
	Tx        repo.Transactor
	Logger    *logrus.Logger
}

func NewBookmarkService(bookmarks repo.BookmarkRepository, materials repo.MaterialRepository, tx repo.Transactor, logger *logrus.Logger) *BookmarkService {
	return &BookmarkService{Bookmarks: bookmarks, Materials: materials, Tx: tx, Logger: logger}
}

// Toggle removes the user's bookmark at in when it exists and creates it otherwise.
func (s *BookmarkService) Toggle(ctx context.Context, userID string, in BookmarkInput) (BookmarkResponse, error) {
	var out BookmarkResponse
	err := s.Tx.InTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Materials.GetByID(ctx, in.MaterialID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrMaterialNotFound
			}
			return err
		}

		existing, err := s.Bookmarks.Find(ctx, userID, in.MaterialID, in.TitleID, in.STitleID)
		switch {
		case err == nil:
			if err := s.Bookmarks.Delete(ctx, existing.ID); err != nil {
				return err
			}
			out = BookmarkResponseFrom(existing, false)
			return nil
		case errors.Is(err, repo.ErrNotFound):
		default:
			return err
		}

		b := &entity.Bookmark{UserID: userID, MaterialID: in.MaterialID, TitleID: in.TitleID, STitleID: in.STitleID}
		if err := s.Bookmarks.Create(ctx, b); err != nil {
			return err
		}
		out = BookmarkResponseFrom(b, true)
		return nil
	})
	if errors.Is(err, repo.ErrDuplicateBookmark) {
		// A concurrent toggle inserted the same position first.
		existing, findErr := s.Bookmarks.Find(ctx, userID, in.MaterialID, in.TitleID, in.STitleID)
		if findErr != nil {
			err = findErr
		} else {
			return BookmarkResponseFrom(existing, true), nil
		}
	}
	if err != nil {
		if !errors.Is(err, ErrMaterialNotFound) && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("bookmark toggle failed")
		}
		return BookmarkResponse{}, err
	}
	return out, nil
}

// List returns the user's bookmarks, newest first.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]BookmarkResponse, error) {
	items, err := s.Bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]BookmarkResponse, 0, len(items))
	for i := range items {
		out = append(out, BookmarkResponseFrom(&items[i], true))
	}
	return out, nil
}
