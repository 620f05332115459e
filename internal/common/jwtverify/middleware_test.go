package jwtverify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/common/logger"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

var testSecret = []byte("test-secret-key-with-enough-bytes-000")

type mockUserLoader struct {
	findByIDFn func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserLoader) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	return m.findByIDFn(ctx, id)
}

func signToken(t *testing.T, sub string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": now.Add(expiresIn).Unix(),
		"iat": now.Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func setupMiddleware(loader UserLoader) http.Handler {
	log, _ := logger.New("", "test", "error")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			http.Error(w, "no user in context", http.StatusInternalServerError)
			return
		}
		if user.PasswordHash != "" {
			http.Error(w, "hash leaked into context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return Middleware(string(testSecret), loader, log)(next)
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.Message
}

func TestMiddleware_MissingHeader(t *testing.T) {
	handler := setupMiddleware(&mockUserLoader{})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	loader := &mockUserLoader{
		findByIDFn: func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
			return userdomain.User{
				ID:           id,
				Name:         "Alice",
				Email:        "alice@example.com",
				PasswordHash: "bcrypt-hash",
			}, nil
		},
	}
	handler := setupMiddleware(loader)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-123", time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMiddleware_ExpiredAndInvalidAreDistinct(t *testing.T) {
	handler := setupMiddleware(&mockUserLoader{})

	expired := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	expired.Header.Set("Authorization", "Bearer "+signToken(t, "user-123", -time.Hour))
	expiredRec := httptest.NewRecorder()
	handler.ServeHTTP(expiredRec, expired)

	garbage := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	garbage.Header.Set("Authorization", "Bearer not.a.token")
	garbageRec := httptest.NewRecorder()
	handler.ServeHTTP(garbageRec, garbage)

	if expiredRec.Code != http.StatusUnauthorized || garbageRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", expiredRec.Code, garbageRec.Code)
	}

	expiredMsg := responseMessage(t, expiredRec)
	garbageMsg := responseMessage(t, garbageRec)

	if expiredMsg != commonerrors.ErrTokenExpired.Message() {
		t.Errorf("expected expired message, got %q", expiredMsg)
	}
	if garbageMsg != commonerrors.ErrInvalidToken.Message() {
		t.Errorf("expected invalid-token message, got %q", garbageMsg)
	}
	if expiredMsg == garbageMsg {
		t.Error("expired and invalid tokens must be reported distinctly")
	}
}

func TestMiddleware_DeletedUser(t *testing.T) {
	loader := &mockUserLoader{
		findByIDFn: func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
			return userdomain.User{}, commonerrors.ErrUserNotFound
		},
	}
	handler := setupMiddleware(loader)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-gone", time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a valid token naming a deleted user, got %d", rec.Code)
	}
}

func TestParseToken_UnexpectedSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = ParseToken(signed, testSecret)
	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestParseToken_MissingSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = ParseToken(signed, testSecret)
	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken without sub claim, got %v", err)
	}
}
