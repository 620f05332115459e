package domain

import (
	"time"

	postdomain "github.com/blogchat/backend/internal/post/domain"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

type ID string

// Comment always references an existing post; comments have no update or
// delete lifecycle.
type Comment struct {
	ID        ID
	Text      string
	PostID    postdomain.ID
	AuthorID  userdomain.ID
	CreatedAt time.Time
}
