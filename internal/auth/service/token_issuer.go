package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nickgeorgouses/note-app/internal/common/clock"
	commoncrypto "github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/jwtverify"
	userdomain "github.com/nickgeorgouses/note-app/internal/user/domain"
)

// TokenIssuer signs stateless HS256 identity tokens. There is no refresh or revocation;
// a token is valid until it expires.
type TokenIssuer struct {
	secret []byte
	ids    commoncrypto.IDGenerator
	clock  clock.Clock
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ids commoncrypto.IDGenerator, ttl time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ids:    ids,
		clock:  clock,
		ttl:    ttl,
	}
}

func (ti *TokenIssuer) IssueToken(user userdomain.User) (string, error) {
	jti, err := ti.ids.NewID()
	if err != nil {
		return "", err
	}

	now := ti.clock.Now()
	claims := jwtverify.Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return signed, nil
}

func (ti *TokenIssuer) ParseToken(token string) (jwtverify.Identity, error) {
	return jwtverify.ParseToken(token, ti.secret)
}
