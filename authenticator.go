package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-identity/federated"
)

// Auther coordinates a login attempt over the local and federated paths and
// the token-introspection path. Each attempt runs on its own request-scoped
// context; the orchestrator holds no in-process mutable shared state.
type Auther struct {
	store        AccountStore
	resolver     *AccountResolver
	tokenService TokenService
	verifier     CredentialVerifier
	providers    map[string]federated.Provider
	logger       Logger
}

// AutherOption configures the orchestrator.
type AutherOption func(*Auther)

// NewAuthenticator returns a new Auther. It fails when the token service
// cannot be constructed from the configuration (missing or short signing
// secret), which aborts startup rather than surfacing per request.
func NewAuthenticator(store AccountStore, cfg Config, opts ...AutherOption) (*Auther, error) {
	a := &Auther{
		store:     store,
		resolver:  NewAccountResolver(store),
		verifier:  NewCredentialVerifier(),
		providers: make(map[string]federated.Provider),
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.tokenService == nil {
		tokenService, err := NewTokenService(cfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.tokenService = tokenService
	}

	return a, nil
}

// WithLogger sets the logger used by the orchestrator and its resolver.
func WithLogger(logger Logger) AutherOption {
	return func(a *Auther) {
		a.logger = logger
		a.resolver.WithLogger(logger)
	}
}

// WithProvider registers a federated provider tag as recognized. Logins
// carrying an unregistered tag are rejected before any resolution.
func WithProvider(provider federated.Provider) AutherOption {
	return func(a *Auther) {
		if provider != nil {
			a.providers[provider.Name()] = provider
		}
	}
}

// WithTokenService overrides the config-built token service.
func WithTokenService(tokenService TokenService) AutherOption {
	return func(a *Auther) {
		a.tokenService = tokenService
	}
}

// WithCredentialVerifier overrides the bcrypt-backed verifier.
func WithCredentialVerifier(verifier CredentialVerifier) AutherOption {
	return func(a *Auther) {
		a.verifier = verifier
	}
}

// Verify interface compliance
var _ Authenticator = (*Auther)(nil)

// TokenService returns the token service used by this orchestrator.
func (a *Auther) TokenService() TokenService {
	return a.tokenService
}

// Provider returns the registered normalizer for a provider tag.
func (a *Auther) Provider(name string) (federated.Provider, bool) {
	provider, ok := a.providers[name]
	return provider, ok
}

// Login handles the local path: resolve the account by identifier, compare
// the password against the stored hash, and issue a token. Unknown identity,
// wrong password, and federated-only accounts all collapse to
// ErrInvalidCredentials.
func (a *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	account, err := a.resolver.ResolveLocal(ctx, identifier)
	if err != nil {
		if IsAccountNotFound(err) {
			a.logger.Debug("local login for unknown identity %s", identifier)
			return "", ErrInvalidCredentials
		}
		a.logger.Error("local login resolution error: %v", err)
		return "", err
	}

	// Accounts provisioned from federated logins carry a provider sentinel,
	// never a usable password.
	if account.IsFederated() {
		a.logger.Debug("local login against federated-only account %s", identifier)
		return "", ErrInvalidCredentials
	}

	if err := a.verifier.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		a.logger.Error("local login credential check error: %v", err)
		return "", ErrInvalidCredentials
	}

	return a.issue(ctx, account)
}

// LoginFederated handles the federated path. The OAuth2 exchange layer has
// already completed provider-side authentication; this only reconciles the
// normalized profile to a local account and issues a token. An unrecognized
// provider tag is rejected before any resolution is attempted.
func (a *Auther) LoginFederated(ctx context.Context, provider string, profile *federated.Profile) (string, error) {
	if _, ok := a.providers[provider]; !ok {
		a.logger.Warn("federated login from unconfigured provider %q", provider)
		return "", ErrUnsupportedProvider
	}

	account, err := a.resolver.ResolveOrProvisionFederated(ctx, profile)
	if err != nil {
		a.logger.Error("federated resolution error provider=%s: %v", provider, err)
		return "", err
	}

	return a.issue(ctx, account)
}

// Introspect delegates to the token service; it never touches the resolver.
func (a *Auther) Introspect(token string) (*Claims, error) {
	return a.tokenService.Verify(token)
}

// ExtractClaim delegates to the token service.
func (a *Auther) ExtractClaim(token, name string) (any, error) {
	return a.tokenService.ExtractClaim(token, name)
}

func (a *Auther) issue(ctx context.Context, account *Account) (string, error) {
	roles, err := a.store.ListRoles(ctx, account)
	if err != nil {
		a.logger.Error("failed to list roles for %s: %v", account.Username, err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to list account roles")
	}

	token, err := a.tokenService.Issue(account, roles)
	if err != nil {
		a.logger.Error("token issuance failed for %s: %v", account.Username, err)
		return "", err
	}

	return token, nil
}
