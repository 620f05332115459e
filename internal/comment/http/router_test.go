package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blogchat/backend/internal/comment/domain"
	"github.com/blogchat/backend/internal/comment/service"
	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/common/logger"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

const postID = "5f1e0f3a-9a62-4c5e-8f25-3a0c8c1b2d4e"

type mockCommentRepo struct {
	createFn func(ctx context.Context, comment domain.Comment) (domain.Comment, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	return m.createFn(ctx, comment)
}

type noopPublisher struct{}

func (noopPublisher) Publish(event string, payload any) {}

type staticIDGenerator struct{}

func (staticIDGenerator) NewID() (string, error) { return "comment-1", nil }

func setupHandler(repo *mockCommentRepo) *Handler {
	log, _ := logger.New("", "test", "error")
	svc := service.NewCommentService(repo, staticIDGenerator{}, noopPublisher{}, log)
	return NewHandler(svc, 5*time.Second, log)
}

func asUser(req *http.Request, id userdomain.ID) *http.Request {
	ctx := jwtverify.WithUser(req.Context(), userdomain.User{ID: id, Name: "Tester"})
	return req.WithContext(ctx)
}

func TestCommentHandler_Create(t *testing.T) {
	repo := &mockCommentRepo{
		createFn: func(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
			comment.CreatedAt = time.Now()
			return comment, nil
		},
	}
	handler := setupHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/comments",
		strings.NewReader(`{"postId":"`+postID+`","text":"nice post"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(req, "user-b"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body createCommentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success || body.Data.Text != "nice post" || body.Data.PostID != postID {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestCommentHandler_Create_MissingPost(t *testing.T) {
	repo := &mockCommentRepo{
		createFn: func(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
			return domain.Comment{}, commonerrors.ErrPostNotFound
		},
	}
	handler := setupHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/comments",
		strings.NewReader(`{"postId":"`+postID+`","text":"nice post"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, asUser(req, "user-b"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing post, got %d", rec.Code)
	}
}

func TestCommentHandler_Create_Validation(t *testing.T) {
	handler := setupHandler(&mockCommentRepo{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed post id", `{"postId":"not-a-uuid","text":"hi"}`},
		{"empty text", `{"postId":"` + postID + `","text":""}`},
		{"text too long", `{"postId":"` + postID + `","text":"` + strings.Repeat("a", 501) + `"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/comments", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, asUser(req, "user-b"))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCommentHandler_Create_Unauthenticated(t *testing.T) {
	handler := setupHandler(&mockCommentRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/comments",
		strings.NewReader(`{"postId":"`+postID+`","text":"hi"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
