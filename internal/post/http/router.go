package http

import (
	"net/http"
	"strings"
	"time"

	commonhttp "github.com/blogchat/backend/internal/common/http"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/common/logger"
	"github.com/blogchat/backend/internal/post/domain"
	"github.com/blogchat/backend/internal/post/service"
)

type postRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=200"`
	Content string `json:"content" validate:"required,min=5"`
}

type postResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	OwnerID    string   `json:"ownerId"`
	OwnerName  string   `json:"ownerName"`
	CommentIDs []string `json:"comments"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

type singlePostResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Post    postResponse `json:"post"`
}

type listPostsResponse struct {
	Success bool           `json:"success"`
	Posts   []postResponse `json:"posts"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	posts *service.PostService
	log   *logger.Logger
	mux   *http.ServeMux
}

func NewHandler(posts *service.PostService, requestTimeout time.Duration, log *logger.Logger) *Handler {
	h := &Handler{posts: posts, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", commonhttp.WithTimeout(requestTimeout)(h.collection))
	mux.HandleFunc("/api/posts/", commonhttp.WithTimeout(requestTimeout)(h.item))
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	if id == "" || strings.Contains(id, "/") {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if err := commonhttp.ValidateUUID(id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, domain.ID(id))
	case http.MethodPut:
		h.update(w, r, domain.ID(id))
	case http.MethodDelete:
		h.delete(w, r, domain.ID(id))
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, listPostsResponse{
		Success: true,
		Posts:   toPostResponses(posts),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id domain.ID) {
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, singlePostResponse{
		Success: true,
		Post:    toPostResponse(post),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.CurrentUser(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req postRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if violations := commonhttp.ValidateStruct(req); violations != nil {
		commonhttp.WriteValidationError(w, violations)
		return
	}

	post, err := h.posts.Create(r.Context(), service.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		OwnerID: user.ID,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, singlePostResponse{
		Success: true,
		Message: "post created successfully",
		Post:    toPostResponse(post),
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id domain.ID) {
	user, ok := jwtverify.CurrentUser(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req postRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if violations := commonhttp.ValidateStruct(req); violations != nil {
		commonhttp.WriteValidationError(w, violations)
		return
	}

	post, err := h.posts.Update(r.Context(), service.UpdateInput{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
		Actor:   user.ID,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, singlePostResponse{
		Success: true,
		Message: "post updated",
		Post:    toPostResponse(post),
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id domain.ID) {
	user, ok := jwtverify.CurrentUser(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.posts.Delete(r.Context(), id, user.ID); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, deleteResponse{
		Success: true,
		Message: "post deleted successfully",
	})
}

func toPostResponse(post domain.Post) postResponse {
	comments := post.CommentIDs
	if comments == nil {
		comments = []string{}
	}
	return postResponse{
		ID:         string(post.ID),
		Title:      post.Title,
		Content:    post.Content,
		OwnerID:    string(post.OwnerID),
		OwnerName:  post.OwnerName,
		CommentIDs: comments,
		CreatedAt:  post.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  post.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toPostResponses(posts []domain.Post) []postResponse {
	result := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		result = append(result, toPostResponse(p))
	}
	return result
}
