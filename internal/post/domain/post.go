package domain

import (
	"time"

	userdomain "github.com/blogchat/backend/internal/user/domain"
)

type ID string

// Post is a blog entry. OwnerID is set once at creation and never mutated;
// CommentIDs are held in insertion order, which is chronological.
type Post struct {
	ID         ID
	Title      string
	Content    string
	OwnerID    userdomain.ID
	OwnerName  string
	CommentIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
