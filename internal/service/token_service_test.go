package service

import (
	"errors"
	"testing"
	"time"

	"pdf-toolkit/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTIssuer_IssuePairAndParse(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair(testUser)
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.Access == pair.Refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	claims, err := issuer.Parse(pair.Access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Parse(access) returned error: %v", err)
	}
	if claims.UserID != testUser.ID || claims.Username != testUser.Username {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a jti claim")
	}

	if _, err := issuer.Parse(pair.Refresh, TokenTypeRefresh); err != nil {
		t.Fatalf("Parse(refresh) returned error: %v", err)
	}
}

func TestJWTIssuer_RejectsWrongTokenType(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.IssuePair(testUser)
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	if _, err := issuer.Parse(pair.Refresh, TokenTypeAccess); !errors.Is(err, domain.ErrTokenType) {
		t.Errorf("refresh token used as access: expected ErrTokenType, got %v", err)
	}
	if _, err := issuer.Parse(pair.Access, TokenTypeRefresh); !errors.Is(err, domain.ErrTokenType) {
		t.Errorf("access token used as refresh: expected ErrTokenType, got %v", err)
	}
}

func TestJWTIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := newTestIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	access, err := issuer.IssueAccess(testUser)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Parse(access, TokenTypeAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTIssuer_RejectsForeignSignatures(t *testing.T) {
	issuer := newTestIssuer()

	other := NewJWTIssuer("another-secret", time.Minute, time.Minute)
	foreign, err := other.IssueAccess(testUser)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}
	if _, err := issuer.Parse(foreign, TokenTypeAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		UserID:           testUser.ID,
		TokenType:        TokenTypeAccess,
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing HS512 token: %v", err)
	}
	if _, err := issuer.Parse(hs512, TokenTypeAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for HS512 token, got %v", err)
	}

	if _, err := issuer.Parse("not.a.token", TokenTypeAccess); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
