package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, expiresIn string) *Service {
	t.Helper()
	svc, err := NewService("unit-test-secret", expiresIn)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGenerateAndVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t, "1h")

	claims := Claims{
		"id":       "user-123",
		"username": "johndoe",
		"email":    "john@example.com",
		"role":     "admin",
		"permissions": []any{"read", "write"},
		"metadata": map[string]any{"lastLogin": "2024-01-01"},
		"exp":      float64(time.Now().Unix() + 3600),
	}

	token, err := svc.GenerateToken(claims)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	decoded, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if decoded["id"] != "user-123" || decoded["username"] != "johndoe" || decoded["email"] != "john@example.com" {
		t.Fatalf("identity fields did not round-trip: %v", decoded)
	}
	if decoded["role"] != "admin" {
		t.Fatalf("extra field role lost: %v", decoded["role"])
	}
	perms, ok := decoded["permissions"].([]any)
	if !ok || len(perms) != 2 || perms[0] != "read" {
		t.Fatalf("extra field permissions did not round-trip: %v", decoded["permissions"])
	}
	meta, ok := decoded["metadata"].(map[string]any)
	if !ok || meta["lastLogin"] != "2024-01-01" {
		t.Fatalf("nested extra field did not round-trip: %v", decoded["metadata"])
	}
}

func TestGenerateTokenRequiresExp(t *testing.T) {
	svc := newTestService(t, "1h")

	_, err := svc.GenerateToken(Claims{"id": "user-1"})
	if !errors.Is(err, ErrMissingExpiry) {
		t.Fatalf("expected ErrMissingExpiry, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestService(t, "1h")

	token, err := svc.GenerateToken(Claims{"id": "user-1", "exp": time.Now().Unix() - 3600})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyExpiryBoundaryInclusive(t *testing.T) {
	svc := newTestService(t, "1h")

	// exp equal to the current second counts as expired.
	token, err := svc.GenerateToken(Claims{"id": "user-1", "exp": time.Now().Unix()})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at boundary, got %v", err)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	svc := newTestService(t, "1h")

	for _, token := range []string{
		"",
		"not-a-token",
		"invalid.token.here",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid-signature",
	} {
		if _, err := svc.VerifyToken(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}

func TestVerifyClassifiesBadSignature(t *testing.T) {
	svc := newTestService(t, "1h")
	other := newTestService(t, "1h")
	other.secret = []byte("a-different-secret")

	token, err := other.GenerateToken(Claims{"id": "user-1", "exp": time.Now().Unix() + 3600})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyClassifiesMalformed(t *testing.T) {
	svc := newTestService(t, "1h")

	if _, err := svc.VerifyToken("just-two.segments"); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestParseExpiresIn(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"7d", 604800, true},
		{"30m", 1800, true},
		{"45", 45, true},
		{"1h", 3600, true},
		{"2w", 1209600, true},
		{"10s", 10, true},
		{"3x", 0, false},
		{"", 0, false},
		{"d", 0, false},
		{"-5s", 0, false},
		{"1.5h", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseExpiresIn(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseExpiresIn(%q): unexpected error %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseExpiresIn(%q) = %d, want %d", tc.in, got, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("ParseExpiresIn(%q): expected ErrInvalidDuration, got %v", tc.in, err)
		}
	}
}

func TestGenerateUserToken(t *testing.T) {
	svc := newTestService(t, "7d")

	before := time.Now().Unix()
	token, err := svc.GenerateUserToken("456", "janedoe", "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims["id"] != "456" || claims["username"] != "janedoe" || claims["email"] != "jane@example.com" {
		t.Fatalf("unexpected identity claims: %v", claims)
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatalf("expected a non-empty jti claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp has unexpected type %T", claims["exp"])
	}
	wantExp := before + 7*24*3600
	if diff := int64(exp) - wantExp; diff < 0 || diff > 60 {
		t.Fatalf("exp = %d, wanted about %d", int64(exp), wantExp)
	}
}

func TestGenerateUserTokenDistinctUsers(t *testing.T) {
	svc := newTestService(t, "1h")

	t1, err := svc.GenerateUserToken("1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	t2, err := svc.GenerateUserToken("2", "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	if t1 == t2 {
		t.Fatalf("tokens for different users should differ")
	}

	c1, err := svc.VerifyToken(t1)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if c1["username"] != "alice" {
		t.Fatalf("wrong claims for first token: %v", c1)
	}
}

func TestNewServiceRejectsBadConfig(t *testing.T) {
	if _, err := NewService("", "7d"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewService("secret", "3x"); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestIdentityFromClaims(t *testing.T) {
	claims := Claims{
		"id":       "42",
		"username": "johndoe",
		"email":    "john@example.com",
		"exp":      float64(1700000000),
		"role":     "editor",
	}
	user := IdentityFromClaims(claims)
	if user.ID != "42" || user.Username != "johndoe" || user.Email != "john@example.com" {
		t.Fatalf("unexpected identity: %+v", user)
	}
	if user.ExpiresAt != 1700000000 {
		t.Fatalf("ExpiresAt = %d", user.ExpiresAt)
	}
	if user.Claims["role"] != "editor" {
		t.Fatalf("extra claims should stay reachable")
	}
	uid, err := user.UserID()
	if err != nil || uid != 42 {
		t.Fatalf("UserID = %d, %v", uid, err)
	}
}
