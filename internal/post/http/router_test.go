package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/common/logger"
	"github.com/blogchat/backend/internal/post/domain"
	"github.com/blogchat/backend/internal/post/service"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

const (
	postID  = "5f1e0f3a-9a62-4c5e-8f25-3a0c8c1b2d4e"
	otherID = "0b8d2c7e-4f13-45a9-9d6a-7e5b1a2c3d4f"
)

type mockPostRepo struct {
	createFn      func(ctx context.Context, post domain.Post) error
	listFn        func(ctx context.Context) ([]domain.Post, error)
	findByIDFn    func(ctx context.Context, id domain.ID) (domain.Post, error)
	updateOwnedFn func(ctx context.Context, id domain.ID, ownerID userdomain.ID, title, content string) (domain.Post, error)
	deleteOwnedFn func(ctx context.Context, id domain.ID, ownerID userdomain.ID) error
}

func (m *mockPostRepo) Create(ctx context.Context, post domain.Post) error {
	return m.createFn(ctx, post)
}

func (m *mockPostRepo) List(ctx context.Context) ([]domain.Post, error) {
	return m.listFn(ctx)
}

func (m *mockPostRepo) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockPostRepo) UpdateOwned(ctx context.Context, id domain.ID, ownerID userdomain.ID, title, content string) (domain.Post, error) {
	return m.updateOwnedFn(ctx, id, ownerID, title, content)
}

func (m *mockPostRepo) DeleteOwned(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
	return m.deleteOwnedFn(ctx, id, ownerID)
}

type noopPublisher struct{}

func (noopPublisher) Publish(event string, payload any) {}

type uuidGen struct{}

func (uuidGen) NewID() (string, error) { return postID, nil }

func setupHandler(repo *mockPostRepo) *Handler {
	log, _ := logger.New("", "test", "error")
	svc := service.NewPostService(repo, uuidGen{}, noopPublisher{}, log)
	return NewHandler(svc, 5*time.Second, log)
}

func asUser(req *http.Request, id userdomain.ID) *http.Request {
	ctx := jwtverify.WithUser(req.Context(), userdomain.User{ID: id, Name: "Tester"})
	return req.WithContext(ctx)
}

func TestPostHandler_List(t *testing.T) {
	repo := &mockPostRepo{
		listFn: func(ctx context.Context) ([]domain.Post, error) {
			return []domain.Post{{
				ID:        domain.ID(postID),
				Title:     "hello",
				Content:   "first post",
				OwnerID:   "user-a",
				OwnerName: "Alice",
			}}, nil
		},
	}
	handler := setupHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body listPostsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success || len(body.Posts) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Posts[0].CommentIDs == nil {
		t.Error("comments must serialize as an empty array, not null")
	}
	if body.Posts[0].OwnerName != "Alice" {
		t.Errorf("expected owner name projection, got %q", body.Posts[0].OwnerName)
	}
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	repo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			return domain.Post{}, commonerrors.ErrPostNotFound
		},
	}
	handler := setupHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/"+otherID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestPostHandler_Get_MalformedID(t *testing.T) {
	handler := setupHandler(&mockPostRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/posts/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestPostHandler_Create_Unauthenticated(t *testing.T) {
	handler := setupHandler(&mockPostRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"hello","content":"first post"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestPostHandler_Create_Validation(t *testing.T) {
	handler := setupHandler(&mockPostRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"ab","content":"hey"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(req, "user-a"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Success || len(body.Errors) != 2 {
		t.Errorf("expected violations for title and content, got %+v", body)
	}
}

func TestPostHandler_Update_NotOwner(t *testing.T) {
	stored := domain.Post{
		ID:      domain.ID(postID),
		Title:   "hello",
		Content: "first post",
		OwnerID: "user-a",
	}
	repo := &mockPostRepo{
		updateOwnedFn: func(ctx context.Context, id domain.ID, ownerID userdomain.ID, title, content string) (domain.Post, error) {
			if ownerID != stored.OwnerID {
				return domain.Post{}, commonerrors.ErrNotPostOwner
			}
			stored.Title, stored.Content = title, content
			return stored, nil
		},
	}
	handler := setupHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/posts/"+postID, strings.NewReader(`{"title":"hijacked","content":"rewritten"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(req, "user-b"))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner update, got %d", rec.Code)
	}
	if stored.Title != "hello" {
		t.Errorf("post must be unchanged after a rejected update, got title %q", stored.Title)
	}
}

func TestPostHandler_Delete_NotOwner(t *testing.T) {
	repo := &mockPostRepo{
		deleteOwnedFn: func(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
			return commonerrors.ErrNotPostOwner
		},
	}
	handler := setupHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/"+postID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(req, "user-b"))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner delete, got %d", rec.Code)
	}
}

func TestPostHandler_Update_Owner(t *testing.T) {
	repo := &mockPostRepo{
		updateOwnedFn: func(ctx context.Context, id domain.ID, ownerID userdomain.ID, title, content string) (domain.Post, error) {
			return domain.Post{ID: id, Title: title, Content: content, OwnerID: ownerID, OwnerName: "Alice"}, nil
		},
	}
	handler := setupHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/posts/"+postID, strings.NewReader(`{"title":"edited","content":"new content"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(req, "user-a"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body singlePostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Post.Title != "edited" {
		t.Errorf("expected edited title, got %q", body.Post.Title)
	}
}
