package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names carried by issued tokens.
const (
	ClaimSubject   = "sub"
	ClaimRoles     = "roles"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimIssuer    = "iss"
)

// Claims is the token payload: the registered claim set plus the role-name
// list. Any consumer holding the shared secret can verify and decode it with
// standard JWT parsing, there is no proprietary envelope.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// Subject returns the canonical identity string the token asserts.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Authorities returns the role names as the capability view used in
// authorization checks.
func (c *Claims) Authorities() Authorities {
	return Authorities(c.Roles)
}

// HasAuthority checks the roles claim by exact string equality.
func (c *Claims) HasAuthority(name string) bool {
	return c.Authorities().Contains(name)
}

// Expires returns the expiration time, zero when absent.
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time, zero when absent.
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
