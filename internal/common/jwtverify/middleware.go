package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/blogchat/backend/internal/common/errors"
	commonhttp "github.com/blogchat/backend/internal/common/http"
	"github.com/blogchat/backend/internal/common/logger"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

type Claims struct {
	UserID string
}

// UserLoader resolves a verified subject to the stored user record.
type UserLoader interface {
	FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

type contextKey string

const userKey contextKey = "auth_user"

// Middleware verifies the bearer token, loads the user it names and attaches
// the user (hash cleared) to the request context. Every failure is terminal:
// expired and malformed tokens are rejected with distinct messages, and a
// valid token whose subject no longer resolves yields 404.
func Middleware(secret string, users UserLoader, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := ExtractTokenFromHeader(r)
			if !ok {
				log.Warnf("auth failed path=%s: missing or malformed authorization header", r.URL.Path)
				commonhttp.WriteError(w, http.StatusUnauthorized, commonerrors.ErrMissingAuthorization.Message())
				return
			}

			claims, err := ParseToken(tokenString, secretBytes)
			if err != nil {
				log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				if errors.Is(err, commonerrors.ErrTokenExpired) {
					commonhttp.WriteError(w, http.StatusUnauthorized, commonerrors.ErrTokenExpired.Message())
					return
				}
				commonhttp.WriteError(w, http.StatusUnauthorized, commonerrors.ErrInvalidToken.Message())
				return
			}

			user, err := users.FindByID(r.Context(), userdomain.ID(claims.UserID))
			if err != nil {
				if errors.Is(err, commonerrors.ErrUserNotFound) {
					log.Warnf("auth failed path=%s user_id=%s: user no longer exists", r.URL.Path, claims.UserID)
					commonhttp.WriteError(w, http.StatusNotFound, commonerrors.ErrUserNotFound.Message())
					return
				}
				log.Errorf("auth failed path=%s user_id=%s: %v", r.URL.Path, claims.UserID, err)
				commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			user.PasswordHash = ""

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user attached by Middleware.
func CurrentUser(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(userdomain.User)
	return user, ok
}

// WithUser is a test seam for handler tests that bypass Middleware.
func WithUser(ctx context.Context, user userdomain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func ExtractTokenFromHeader(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(raw, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// ParseToken checks signature and expiry, always distinguishing the expired
// case from any other defect.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, commonerrors.ErrTokenExpired.WithCause(err)
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	return Claims{UserID: sub}, nil
}
