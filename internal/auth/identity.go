package auth

import (
	"fmt"
	"strconv"
)

// AuthenticatedUser is the identity decoded from a verified token. It is
// owned by a single request context and never mutated after decode.
type AuthenticatedUser struct {
	ID        string
	Username  string
	Email     string
	ExpiresAt int64
	Claims    Claims
}

// IdentityFromClaims projects the well-known identity fields out of verified
// claims. Unknown fields stay reachable through Claims.
func IdentityFromClaims(claims Claims) AuthenticatedUser {
	user := AuthenticatedUser{Claims: claims}
	user.ID = stringClaim(claims, "id")
	user.Username = stringClaim(claims, "username")
	user.Email = stringClaim(claims, "email")
	if exp, err := toUnixSeconds(claims["exp"]); err == nil {
		user.ExpiresAt = exp
	}
	return user
}

// UserID parses the numeric storage id out of the identity.
func (u AuthenticatedUser) UserID() (int64, error) {
	id, err := strconv.ParseInt(u.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token id %q is not numeric", u.ID)
	}
	return id, nil
}

func stringClaim(claims Claims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
