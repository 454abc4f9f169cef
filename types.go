package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-identity/federated"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator coordinates a single login attempt and token introspection
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	LoginFederated(ctx context.Context, provider string, profile *federated.Profile) (string, error)
	Introspect(token string) (*Claims, error)
	ExtractClaim(token, name string) (any, error)
}

// AccountStore is the persistence capability the core consumes. Implementations
// must enforce a uniqueness constraint on the canonical identity string:
// Insert fails with a conflict error when the identity already exists.
type AccountStore interface {
	FindByIdentity(ctx context.Context, identity string) (*Account, error)
	Insert(ctx context.Context, account *Account) (*Account, error)
	ListRoles(ctx context.Context, account *Account) ([]*Role, error)
}

// CredentialVerifier authenticates plaintext passwords against stored hashes
type CredentialVerifier interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds identity options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
}

// SimpleConfig is a plain Config implementation for direct construction
type SimpleConfig struct {
	SigningKey string
	TokenTTL   time.Duration
	Issuer     string
}

func (c SimpleConfig) GetSigningKey() string      { return c.SigningKey }
func (c SimpleConfig) GetTokenTTL() time.Duration { return c.TokenTTL }
func (c SimpleConfig) GetIssuer() string          { return c.Issuer }

type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
