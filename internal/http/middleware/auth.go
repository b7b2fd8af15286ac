package middleware

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin"

	"blogapi/internal/auth"
	"blogapi/internal/http/response"
)

const identityKey = "auth_user"

var bearerPattern = regexp.MustCompile(`^Bearer\s+(\S+)$`)

// RequireAuth verifies the bearer credential and attaches the decoded
// identity to the request context. On any failure the request terminates
// here; the handler is never invoked.
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header", response.CodeUnauthorized)
			return
		}

		m := bearerPattern.FindStringSubmatch(header)
		if m == nil {
			abortUnauthorized(c, "invalid authorization header format", response.CodeUnauthorized)
			return
		}

		claims, err := svc.VerifyToken(m[1])
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortUnauthorized(c, "token expired", response.CodeTokenExpired)
				return
			}
			abortUnauthorized(c, "invalid token", response.CodeUnauthorized)
			return
		}

		c.Set(identityKey, auth.IdentityFromClaims(claims))
		c.Next()
	}
}

// CurrentUser returns the identity attached by RequireAuth.
func CurrentUser(c *gin.Context) (auth.AuthenticatedUser, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.AuthenticatedUser{}, false
	}
	user, ok := v.(auth.AuthenticatedUser)
	return user, ok
}

func abortUnauthorized(c *gin.Context, message string, code response.StatusCode) {
	response.Error(c, message, code, nil, "")
	c.Abort()
}
