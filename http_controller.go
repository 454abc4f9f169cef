package identity

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes the login paths and token introspection as a JSON
// API. Which routes of an application require authentication stays a concern
// of the surrounding routing layer; this only maps requests onto the
// orchestrator.
type HTTPController struct {
	Debug  bool
	Logger Logger
	auther *Auther
}

// HTTPControllerOption configures the controller.
type HTTPControllerOption func(*HTTPController)

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) {
		c.Logger = logger
	}
}

// WithControllerDebug enables payload dumps on login requests.
func WithControllerDebug(debug bool) HTTPControllerOption {
	return func(c *HTTPController) {
		c.Debug = debug
	}
}

// NewHTTPController creates a controller over the orchestrator.
func NewHTTPController(auther *Auther, opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Logger: defLogger{},
		auther: auther,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.auther == nil {
		panic("Missing Auther in identity controller...")
	}

	return c
}

// RegisterRoutes registers the login and introspection routes.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	group.Post("/login", c.LoginPost)
	group.Post("/:provider/callback", c.FederatedCallback)
	group.Get("/token", c.TokenShow)
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

var _ LoginPayload = (*LoginRequest)(nil)

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost handles the local path over HTTP.
func (c *HTTPController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("login parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	if c.Debug {
		fmt.Println("======= IDENTITY LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{
			"identifier": payload.Identifier,
		}))
		fmt.Println("=============================")
	}

	token, err := c.auther.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		return c.rejectAuth(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"token": token,
	})
}

// FederatedCallback completes a federated login: the upstream OAuth2 layer
// has exchanged the code and fetched the user-info payload, which arrives
// here as the request body for the provider named in the path.
func (c *HTTPController) FederatedCallback(ctx router.Context) error {
	providerName := ctx.Param("provider")

	provider, ok := c.auther.Provider(providerName)
	if !ok {
		return c.rejectAuth(ctx, ErrUnsupportedProvider)
	}

	attributes := map[string]any{}
	if err := ctx.Bind(&attributes); err != nil {
		c.Logger.Error("federated callback parse payload provider=%s: %v", providerName, err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse payload",
		})
	}

	profile, err := provider.Normalize(attributes)
	if err != nil {
		return c.rejectAuth(ctx, err)
	}

	token, err := c.auther.LoginFederated(ctx.Context(), providerName, profile)
	if err != nil {
		return c.rejectAuth(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"token": token,
	})
}

// TokenShow introspects a bearer token from the Authorization header and
// returns its claims. It never re-touches the account store.
func (c *HTTPController) TokenShow(ctx router.Context) error {
	token := bearerToken(ctx.GetString(router.HeaderAuthorization, ""))
	if token == "" {
		return c.rejectAuth(ctx, ErrInvalidToken)
	}

	claims, err := c.auther.Introspect(token)
	if err != nil {
		return c.rejectAuth(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"sub":   claims.Subject(),
		"roles": claims.Roles,
		"iat":   claims.IssuedAt().Unix(),
		"exp":   claims.Expires().Unix(),
	})
}

// rejectAuth collapses every authentication failure into one generic
// response so the HTTP surface leaks nothing about the cause.
func (c *HTTPController) rejectAuth(ctx router.Context, err error) error {
	c.Logger.Debug("authentication rejected: %v", err)
	return ctx.JSON(router.StatusUnauthorized, map[string]string{
		"error": "authentication failed",
	})
}

func bearerToken(header string) string {
	const scheme = "Bearer "
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}
	return ""
}
