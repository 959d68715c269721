package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nickgeorgouses/note-app/internal/auth/service"
	"github.com/nickgeorgouses/note-app/internal/common/clock"
	userdomain "github.com/nickgeorgouses/note-app/internal/user/domain"
)

func TestTokenIssuer_ClaimsAndExpiry(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	issuer := service.NewTokenIssuer(testSecret, mockIDGenerator{}, 7*24*time.Hour, clock.NewMockClock(now))

	token, err := issuer.IssueToken(userdomain.User{ID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return []byte(testSecret), nil }); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if claims["sub"] != "u-1" || claims["usr"] != "alice" {
		t.Errorf("unexpected subject claims: %v", claims)
	}
	exp, _ := claims.GetExpirationTime()
	iat, _ := claims.GetIssuedAt()
	if exp == nil || iat == nil {
		t.Fatalf("expected exp and iat claims: %v", claims)
	}
	if got := exp.Sub(iat.Time); got != 7*24*time.Hour {
		t.Errorf("token lifetime = %v, want 168h", got)
	}
}

func TestTokenIssuer_ExpiredTokenRejected(t *testing.T) {
	issuedAt := time.Now().Add(-8 * 24 * time.Hour)
	issuer := service.NewTokenIssuer(testSecret, mockIDGenerator{}, 7*24*time.Hour, clock.NewMockClock(issuedAt))

	token, err := issuer.IssueToken(userdomain.User{ID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
