package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the decoded token payload. Any field present at issuance
// round-trips through verification unchanged; the schema is not closed.
type Claims map[string]any

var (
	ErrMalformedToken  = errors.New("malformed token")
	ErrBadSignature    = errors.New("bad token signature")
	ErrTokenExpired    = errors.New("token expired")
	ErrMissingExpiry   = errors.New("claims missing exp")
	ErrInvalidDuration = errors.New("invalid expiresIn format")
)

var expiresInPattern = regexp.MustCompile(`^(\d+)([smhdw])?$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
}

// ParseExpiresIn converts an expiration policy string such as "7d", "30m"
// or "45" into seconds. The unit defaults to seconds when omitted.
func ParseExpiresIn(s string) (int64, error) {
	m := expiresInPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	unit := m[2]
	if unit == "" {
		unit = "s"
	}
	return value * unitSeconds[unit], nil
}

// Service signs and verifies HS256 tokens with a single symmetric secret.
// It is read-only after construction and safe for concurrent use.
type Service struct {
	secret    []byte
	expiresIn int64 // seconds
}

func NewService(secret, expiresIn string) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is empty")
	}
	ttl, err := ParseExpiresIn(expiresIn)
	if err != nil {
		return nil, err
	}
	return &Service{secret: []byte(secret), expiresIn: ttl}, nil
}

// ExpiresIn returns the configured token lifetime in seconds.
func (s *Service) ExpiresIn() int64 { return s.expiresIn }

// GenerateToken signs the claims. exp must already be present, in unix
// seconds; tokens never self-refresh.
func (s *Service) GenerateToken(claims Claims) (string, error) {
	if _, ok := claims["exp"]; !ok {
		return "", ErrMissingExpiry
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks structure, signature and expiry. A token whose exp
// equals the current second is already expired. On success the claims are
// returned exactly as issued.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	mapClaims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, mapClaims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrBadSignature
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		switch {
		case errors.Is(err, ErrBadSignature), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformedToken
		}
	}

	rawExp, ok := mapClaims["exp"]
	if !ok {
		return nil, ErrMissingExpiry
	}
	expAt, err := toUnixSeconds(rawExp)
	if err != nil {
		return nil, ErrMalformedToken
	}
	if expAt <= time.Now().Unix() {
		return nil, ErrTokenExpired
	}

	return Claims(mapClaims), nil
}

// GenerateUserToken issues the standard identity token for a user, expiring
// after the configured policy duration.
func (s *Service) GenerateUserToken(id, username, email string) (string, error) {
	claims := Claims{
		"id":       id,
		"username": username,
		"email":    email,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Unix() + s.expiresIn,
	}
	return s.GenerateToken(claims)
}

func toUnixSeconds(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("exp has unsupported type %T", v)
	}
}
