package http

import (
	"net/http"
	"time"

	"github.com/blogchat/backend/internal/comment/domain"
	"github.com/blogchat/backend/internal/comment/service"
	commonhttp "github.com/blogchat/backend/internal/common/http"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/common/logger"
	postdomain "github.com/blogchat/backend/internal/post/domain"
)

type commentRequest struct {
	PostID string `json:"postId" validate:"required,uuid"`
	Text   string `json:"text" validate:"required,max=500"`
}

type commentResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	CreatedAt string `json:"createdAt"`
}

type createCommentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    commentResponse `json:"data"`
}

type Handler struct {
	comments *service.CommentService
	log      *logger.Logger
	mux      *http.ServeMux
}

func NewHandler(comments *service.CommentService, requestTimeout time.Duration, log *logger.Logger) *Handler {
	h := &Handler{comments: comments, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/comments", commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(h.create)))
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.CurrentUser(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req commentRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if violations := commonhttp.ValidateStruct(req); violations != nil {
		commonhttp.WriteValidationError(w, violations)
		return
	}

	comment, err := h.comments.Create(r.Context(), service.CreateInput{
		PostID:   postdomain.ID(req.PostID),
		Text:     req.Text,
		AuthorID: user.ID,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, createCommentResponse{
		Success: true,
		Message: "comment added successfully",
		Data:    toCommentResponse(comment),
	})
}

func toCommentResponse(comment domain.Comment) commentResponse {
	return commentResponse{
		ID:        string(comment.ID),
		Text:      comment.Text,
		PostID:    string(comment.PostID),
		AuthorID:  string(comment.AuthorID),
		CreatedAt: comment.CreatedAt.UTC().Format(time.RFC3339),
	}
}
