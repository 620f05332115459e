package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogchat/backend/internal/common/clock"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/observability/metrics"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

// TokenIssuer signs time-limited HS256 bearer tokens carrying the user id.
type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	tokenTTL  time.Duration
}

func NewTokenIssuer(jwtSecret string, tokenTTL time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clock,
		tokenTTL:  tokenTTL,
	}
}

func (ti *TokenIssuer) Issue(user userdomain.User) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(user.ID),
		"exp": now.Add(ti.tokenTTL).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return tokenString, nil
}

func (ti *TokenIssuer) Verify(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}

func (ti *TokenIssuer) TTL() time.Duration {
	return ti.tokenTTL
}
