package domain

import (
	"time"

	userdomain "github.com/blogchat/backend/internal/user/domain"
)

// Message is a chat entry. Messages live only in process memory and are
// lost on restart; durability is out of scope at this layer.
type Message struct {
	Text       string
	AuthorID   userdomain.ID
	AuthorName string
	Timestamp  time.Time
}
