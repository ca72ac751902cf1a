package entity

import "time"

// Material is a learning material published by a teacher.
type Material struct {
	ID          int64
	OwnerID     string
	Title       string
	ObjectURL   string
	ContentType string
	CreatedAt   time.Time
}

// Bookmark marks a position (title / sub-title) inside a material for a user.
type Bookmark struct {
	ID         int64
	UserID     string
	MaterialID int64
	TitleID    string
	STitleID   string
	CreatedAt  time.Time
}
