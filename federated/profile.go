// Package federated carries the normalized attribute set received from a
// social identity provider after provider-side authentication, and the rules
// that derive a canonical local identity from it. Profiles are ephemeral:
// they are consumed once by the account resolver and never persisted.
package federated

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Profile represents normalized user information from a federated provider.
type Profile struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
	Raw            map[string]any
}

// ErrIncompleteProfile is returned when a provider payload is missing the
// attributes required to derive a canonical identity.
var ErrIncompleteProfile = errors.New("federated profile missing provider or subject id", errors.CategoryBadInput).
	WithTextCode("federated_incomplete_profile").
	WithCode(errors.CodeBadRequest)

// Validate checks the attributes every downstream consumer depends on.
func (p *Profile) Validate() error {
	if p == nil || p.Provider == "" || p.ProviderUserID == "" {
		return ErrIncompleteProfile
	}
	return nil
}

// CanonicalIdentity derives the unique key used to locate an account. The
// provider email is used verbatim when present; otherwise a deterministic
// fallback embeds the provider tag so identical subject ids from different
// providers can never collide.
func (p *Profile) CanonicalIdentity() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Provider + "User_" + p.ProviderUserID
}

// Sentinel returns the per-provider credential marker stored for accounts
// that never authenticate locally. It is not a usable password: bcrypt
// comparison against it cannot succeed because it is not a bcrypt hash.
func Sentinel(provider string) string {
	return strings.ToUpper(provider) + "_OAUTH"
}

// IsSentinel reports whether a stored credential secret is a provider marker
// rather than a password hash.
func IsSentinel(secret string) bool {
	return strings.HasSuffix(secret, "_OAUTH")
}
