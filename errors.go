package identity

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials  = "identity_invalid_credentials"
	TextCodeUnsupportedProvider = "identity_unsupported_provider"
	TextCodeAccountNotFound     = "identity_account_not_found"
	TextCodeInvalidToken        = "identity_invalid_token"
	TextCodeDuplicateIdentity   = "identity_duplicate"
	TextCodeMissingSigningKey   = "identity_missing_signing_key"
	TextCodeSigningKeyTooShort  = "identity_signing_key_too_short"
)

// ErrInvalidCredentials is returned for any failed local login: unknown
// identity, wrong password, or a federated-only account. The causes are
// deliberately not distinguished to callers.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrUnsupportedProvider is returned for a federated login carrying a provider
// tag that has not been registered with the orchestrator.
var ErrUnsupportedProvider = errors.New("unsupported federated provider", errors.CategoryBadInput).
	WithTextCode(TextCodeUnsupportedProvider).
	WithCode(errors.CodeBadRequest)

// ErrAccountNotFound is the resolver-level miss. It is internal to the core:
// the orchestrator recovers it into ErrInvalidCredentials on the local path
// and into provisioning on the federated path.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidToken is the single verification outcome for malformed structure,
// signature mismatch, and passed expiry alike.
var ErrInvalidToken = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateIdentity is returned by the store when an insert violates the
// canonical identity uniqueness constraint. The resolver treats it as
// "someone else just created it" and re-reads.
var ErrDuplicateIdentity = errors.New("identity already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentity).
	WithCode(errors.CodeConflict)

// ErrMissingSigningKey aborts token service construction.
var ErrMissingSigningKey = errors.New("signing key is required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(errors.CodeBadRequest)

// ErrSigningKeyTooShort aborts token service construction when the secret is
// below the HMAC-SHA256 floor.
var ErrSigningKeyTooShort = errors.New("signing key must be at least 32 bytes", errors.CategoryValidation).
	WithTextCode(TextCodeSigningKeyTooShort).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value should not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the bcrypt comparison failure.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsDuplicateIdentity reports whether err is the store's uniqueness violation,
// either our sentinel or a driver error bubbled up from the database. The
// repository layer wraps driver failures in layered go-errors values whose
// outer messages drop the driver text, so every link of the chain is
// inspected, not just the top-level Error() string.
func IsDuplicateIdentity(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDuplicateIdentity) {
		return true
	}

	for current := err; current != nil; {
		var richErr *errors.Error
		if errors.As(current, &richErr) {
			if richErr.Category == errors.CategoryConflict {
				return true
			}
			if isUniqueViolation(richErr.Message) {
				return true
			}
			current = richErr.Source
			continue
		}

		if isUniqueViolation(current.Error()) {
			return true
		}
		break
	}

	return false
}

// sqlite and postgres phrase the constraint violation differently
func isUniqueViolation(msg string) bool {
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// IsAccountNotFound reports whether err represents a resolver miss.
func IsAccountNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrAccountNotFound) || errors.IsNotFound(err)
}
