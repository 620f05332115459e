package realtime

// Event names pushed to connected clients. Payloads are minimal projections
// of the entity that was just created.
const (
	EventNewPost    = "newPost"
	EventNewComment = "newComment"
	EventNewMessage = "newMessage"
)

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
