package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blogchat/backend/internal/auth/service"
	"github.com/blogchat/backend/internal/common/clock"
	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/common/logger"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

// memoryUserRepo is a map-backed stand-in for the Postgres repository.
type memoryUserRepo struct {
	byEmail map[string]userdomain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: make(map[string]userdomain.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return commonerrors.ErrEmailTaken
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return userdomain.User{}, commonerrors.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash string, password string) error {
	if hash != "hashed:"+password {
		return commonerrors.ErrInvalidCredentials
	}
	return nil
}

type staticIDGenerator struct{}

func (staticIDGenerator) NewID() (string, error) { return "user-1", nil }

func setupAuthHandler() (*Handler, *service.TokenIssuer) {
	log, _ := logger.New("", "test", "error")
	mockClock := clock.NewMockClock(time.Now())
	tokens := service.NewTokenIssuer("test-secret-key-with-enough-bytes-000", time.Hour, mockClock)
	auth := service.NewAuthService(service.AuthServiceDeps{
		Repo:        newMemoryUserRepo(),
		Hasher:      fakeHasher{},
		IDGenerator: staticIDGenerator{},
		Tokens:      tokens,
		Log:         log,
	})
	return NewHandler(auth, time.Hour, 5*time.Second, log), tokens
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	handler, tokens := setupAuthHandler()

	register := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Alice","email":"alice@example.com","password":"secret1"}`))
	registerRec := httptest.NewRecorder()
	handler.ServeHTTP(registerRec, register)

	if registerRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", registerRec.Code, registerRec.Body.String())
	}

	login := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret1"}`))
	loginRec := httptest.NewRecorder()
	handler.ServeHTTP(loginRec, login)

	if loginRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", loginRec.Code, loginRec.Body.String())
	}

	var body loginResponse
	if err := json.Unmarshal(loginRec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("expected a token in the login response")
	}

	claims, err := tokens.Verify(body.Token)
	if err != nil {
		t.Fatalf("login token does not verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected token subject user-1, got %s", claims.UserID)
	}
	if body.User.Email != "alice@example.com" {
		t.Errorf("unexpected user projection: %+v", body.User)
	}

	cookie := findCookie(t, loginRec, "token")
	if cookie.Value != body.Token {
		t.Error("cookie token must match the response token")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie must be httpOnly and SameSite=Strict: %+v", cookie)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler, _ := setupAuthHandler()
	payload := `{"name":"Alice","email":"alice@example.com","password":"secret1"}`

	first := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload))
	firstRec := httptest.NewRecorder()
	handler.ServeHTTP(firstRec, first)

	second := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload))
	secondRec := httptest.NewRecorder()
	handler.ServeHTTP(secondRec, second)

	if firstRec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", firstRec.Code)
	}
	if secondRec.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", secondRec.Code)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	handler, _ := setupAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Alice","email":"not-an-email","password":"123"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Errors []commonerrors.FieldViolation `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Errors) != 2 {
		t.Errorf("expected violations for email and password, got %+v", body.Errors)
	}
}

func TestAuthHandler_Login_UniformRejection(t *testing.T) {
	handler, _ := setupAuthHandler()

	register := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Alice","email":"alice@example.com","password":"secret1"}`))
	handler.ServeHTTP(httptest.NewRecorder(), register)

	unknown := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"secret1"}`))
	unknownRec := httptest.NewRecorder()
	handler.ServeHTTP(unknownRec, unknown)

	wrong := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"wrong1"}`))
	wrongRec := httptest.NewRecorder()
	handler.ServeHTTP(wrongRec, wrong)

	if unknownRec.Code != wrongRec.Code {
		t.Errorf("status codes differ: %d vs %d", unknownRec.Code, wrongRec.Code)
	}
	if unknownRec.Body.String() != wrongRec.Body.String() {
		t.Error("unknown email and wrong password must be indistinguishable")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	handler, _ := setupAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := findCookie(t, rec, "token")
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected an expired empty cookie, got %+v", cookie)
	}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
