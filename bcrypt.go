package identity

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-identity/federated"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

// isSentinelCredential reports whether a stored secret is a federated
// provider marker rather than a bcrypt hash.
func isSentinelCredential(secret string) bool {
	return federated.IsSentinel(secret)
}

type bcryptVerifier struct{}

// NewCredentialVerifier returns the bcrypt-backed CredentialVerifier.
func NewCredentialVerifier() CredentialVerifier {
	return bcryptVerifier{}
}

func (bcryptVerifier) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

func (bcryptVerifier) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}
