package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// MinSigningKeyLength is the HMAC-SHA256 floor for the shared secret.
const MinSigningKeyLength = 32

// DefaultTokenTTL applies when the configuration carries no expiration.
const DefaultTokenTTL = 24 * time.Hour

// TokenService assembles, signs, and verifies bearer tokens. Issuance and
// verification are CPU bound and safe for unbounded concurrent use.
type TokenService interface {
	Issue(account *Account, roles []*Role) (string, error)
	SignClaims(claims *Claims) (string, error)
	Verify(token string) (*Claims, error)
	ExtractClaim(token, name string) (any, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	tokenTTL   time.Duration
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance. It fails when the
// signing secret is absent or below the minimum the algorithm requires;
// callers treat this as fatal at startup, not a per-request condition.
func NewTokenService(cfg Config, logger Logger) (TokenService, error) {
	if logger == nil {
		logger = defLogger{}
	}

	signingKey := []byte(cfg.GetSigningKey())
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	if len(signingKey) < MinSigningKeyLength {
		return nil, ErrSigningKeyTooShort
	}

	tokenTTL := cfg.GetTokenTTL()
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	return &TokenServiceImpl{
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		issuer:     cfg.GetIssuer(),
		logger:     logger,
	}, nil
}

// Issue builds claims from an account and its roles and signs them. The TTL
// is added to the issuance time here; verification never recomputes it.
// Timestamps are whole-second UTC.
func (ts *TokenServiceImpl) Issue(account *Account, roles []*Role) (string, error) {
	if account == nil {
		return "", errors.New("account must not be nil", errors.CategoryInternal)
	}

	now := time.Now().UTC().Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.tokenTTL)),
		},
		Roles: ToAuthorities(roles).Strings(),
	}

	return ts.SignClaims(claims)
}

// SignClaims signs caller-assembled claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Verify parses a compact token, recomputes the signature, and checks expiry.
// Malformed structure, signature mismatch, and passed expiry all return the
// same ErrInvalidToken: the cause is logged but never distinguished to
// callers, preventing oracle-style probing.
func (ts *TokenServiceImpl) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := ts.parse(tokenString, claims)
	if err != nil {
		ts.logger.Debug("token verification failed: %v", err)
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		ts.logger.Debug("token verification produced invalid token")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractClaim validates the token exactly like Verify and returns the raw
// claim value by name, nil when the claim is absent. An invalid token yields
// the same outcome regardless of which claim the caller was after.
func (ts *TokenServiceImpl) ExtractClaim(tokenString, name string) (any, error) {
	claims := jwt.MapClaims{}
	token, err := ts.parse(tokenString, &claims)
	if err != nil || !token.Valid {
		ts.logger.Debug("claim extraction of %q on invalid token: %v", name, err)
		return nil, ErrInvalidToken
	}

	return claims[name], nil
}

func (ts *TokenServiceImpl) parse(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})
}
