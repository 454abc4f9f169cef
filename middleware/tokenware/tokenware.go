package tokenware

import (
	"errors"
	"strings"

	"github.com/goliatone/go-router"

	identity "github.com/goliatone/go-identity"
)

var (
	defaultTokenLookup = "header:" + router.HeaderAuthorization
	ErrTokenMissing    = errors.New("missing or malformed bearer token")
)

// Verifier validates raw bearer tokens. identity.TokenService satisfies it.
type Verifier interface {
	Verify(token string) (*identity.Claims, error)
}

type Config struct {
	// Filter skips the middleware for matching requests.
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	// ContextKey is the router-locals key the verified claims are stored under.
	ContextKey string
	// TokenLookup is a comma separated list of sources, e.g.
	// "header:Authorization,query:access_token,cookie:token".
	TokenLookup string
	AuthScheme  string
	// Verifier is required.
	Verifier Verifier
	// RequiredAuthority rejects verified tokens whose roles claim does not
	// carry the named authority.
	RequiredAuthority string
}

// New builds a middleware that extracts a bearer token, verifies it, and
// stores the claims both in router locals and in the request's standard
// context, where identity.ClaimsFromContext and identity.HasAuthority can
// reach them.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := getDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := extractRawToken(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.Verifier.Verify(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if cfg.RequiredAuthority != "" && !claims.HasAuthority(cfg.RequiredAuthority) {
				return cfg.ErrorHandler(ctx, identity.ErrInvalidCredentials)
			}

			ctx.Locals(cfg.ContextKey, claims)
			ctx.SetContext(identity.WithClaimsContext(ctx.Context(), claims))

			return cfg.SuccessHandler(ctx)
		}
	}
}

func getDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if errors.Is(err, ErrTokenMissing) {
				return c.JSON(router.StatusBadRequest, map[string]string{
					"error": ErrTokenMissing.Error(),
				})
			}
			return c.JSON(router.StatusUnauthorized, map[string]string{
				"error": "authentication failed",
			})
		}
	}

	if cfg.Verifier == nil {
		panic("IDENTITY: token middleware configuration: Verifier is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "claims"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

type tokenExtractor func(c router.Context) (string, error)

func (cfg *Config) getExtractors() []tokenExtractor {
	extractors := make([]tokenExtractor, 0)

	// header:Authorization,query:access_token,param:token,cookie:token
	for _, rootPart := range strings.Split(cfg.TokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) < 2 {
			continue
		}

		source := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(strings.Join(parts[1:], ":"))

		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, cfg.AuthScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		case "param":
			extractors = append(extractors, tokenFromParam(name))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		}
	}

	return extractors
}

func extractRawToken(ctx router.Context, extractors []tokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	if raw == "" && err == nil {
		err = ErrTokenMissing
	}

	return raw, err
}

func tokenFromHeader(header, authScheme string) tokenExtractor {
	return func(c router.Context) (string, error) {
		value := c.GetString(header, "")
		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 {
			return "", ErrTokenMissing
		}
		if len(value) > l+1 && strings.EqualFold(value[:l], scheme) {
			return strings.TrimSpace(value[l:]), nil
		}
		return "", ErrTokenMissing
	}
}

func tokenFromQuery(param string) tokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

func tokenFromParam(param string) tokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

func tokenFromCookie(name string) tokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}
