package identity_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identity "github.com/goliatone/go-identity"
)

func newTestController(t *testing.T, store *fakeAccountStore) *identity.HTTPController {
	t.Helper()
	return identity.NewHTTPController(newTestAuthenticator(t, store))
}

func bindLoginRequest(ctx *router.MockContext, identifier, password string) {
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*identity.LoginRequest)
		payload.Identifier = identifier
		payload.Password = password
	}).Return(nil)
}

func expectJSON(ctx *router.MockContext, status int) *map[string]string {
	payload := &map[string]string{}
	ctx.On("JSON", status, mock.Anything).Run(func(args mock.Arguments) {
		*payload = args.Get(1).(map[string]string)
	}).Return(nil)
	return payload
}

func TestHTTPControllerLoginPost(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		store := newFakeAccountStore()
		seedLocalAccount(t, store, "testuser@example.com", "1234")
		controller := newTestController(t, store)

		ctx := router.NewMockContext()
		bindLoginRequest(ctx, "testuser@example.com", "1234")
		ctx.On("Context").Return(context.Background())
		payload := expectJSON(ctx, router.StatusOK)

		require.NoError(t, controller.LoginPost(ctx))

		token := (*payload)["token"]
		require.NotEmpty(t, token)

		claims, err := newTestAuthenticator(t, store).Introspect(token)
		require.NoError(t, err)
		assert.Equal(t, "testuser@example.com", claims.Subject())
	})

	t.Run("unparseable payload", func(t *testing.T) {
		controller := newTestController(t, newFakeAccountStore())

		ctx := router.NewMockContext()
		ctx.On("Bind", mock.Anything).Return(fmt.Errorf("malformed body"))
		payload := expectJSON(ctx, router.StatusBadRequest)

		require.NoError(t, controller.LoginPost(ctx))
		assert.Equal(t, "failed to parse payload", (*payload)["error"])
	})

	t.Run("invalid payload", func(t *testing.T) {
		controller := newTestController(t, newFakeAccountStore())

		ctx := router.NewMockContext()
		bindLoginRequest(ctx, "not-an-email", "1234")
		payload := expectJSON(ctx, router.StatusBadRequest)

		require.NoError(t, controller.LoginPost(ctx))
		assert.NotEmpty(t, (*payload)["error"])
	})

	t.Run("failure causes are indistinguishable", func(t *testing.T) {
		store := newFakeAccountStore()
		seedLocalAccount(t, store, "testuser@example.com", "1234")
		controller := newTestController(t, store)

		attempt := func(identifier, password string) map[string]string {
			ctx := router.NewMockContext()
			bindLoginRequest(ctx, identifier, password)
			ctx.On("Context").Return(context.Background())
			payload := expectJSON(ctx, router.StatusUnauthorized)
			require.NoError(t, controller.LoginPost(ctx))
			return *payload
		}

		wrongPassword := attempt("testuser@example.com", "wrong")
		unknownUser := attempt("ghost@example.com", "1234")

		assert.Equal(t, map[string]string{"error": "authentication failed"}, wrongPassword)
		assert.Equal(t, wrongPassword, unknownUser)
	})
}

func TestHTTPControllerFederatedCallback(t *testing.T) {
	t.Run("kakao payload provisions and returns a token", func(t *testing.T) {
		store := newFakeAccountStore()
		controller := newTestController(t, store)

		ctx := router.NewMockContext()
		ctx.ParamsM["provider"] = "kakao"
		ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
			attributes := args.Get(0).(*map[string]any)
			(*attributes)["id"] = float64(98765)
		}).Return(nil)
		ctx.On("Context").Return(context.Background())
		payload := expectJSON(ctx, router.StatusOK)

		require.NoError(t, controller.FederatedCallback(ctx))

		token := (*payload)["token"]
		require.NotEmpty(t, token)

		claims, err := newTestAuthenticator(t, store).Introspect(token)
		require.NoError(t, err)
		assert.Equal(t, "kakaoUser_98765", claims.Subject())
		assert.Equal(t, 1, store.count())
	})

	t.Run("unknown provider collapses to the generic rejection", func(t *testing.T) {
		store := newFakeAccountStore()
		controller := newTestController(t, store)

		ctx := router.NewMockContext()
		ctx.ParamsM["provider"] = "naver"
		payload := expectJSON(ctx, router.StatusUnauthorized)

		require.NoError(t, controller.FederatedCallback(ctx))
		assert.Equal(t, "authentication failed", (*payload)["error"])
		assert.Zero(t, store.count())
	})

	t.Run("malformed provider payload collapses to the generic rejection", func(t *testing.T) {
		controller := newTestController(t, newFakeAccountStore())

		ctx := router.NewMockContext()
		ctx.ParamsM["provider"] = "google"
		// no "sub" attribute
		ctx.On("Bind", mock.Anything).Return(nil)
		payload := expectJSON(ctx, router.StatusUnauthorized)

		require.NoError(t, controller.FederatedCallback(ctx))
		assert.Equal(t, "authentication failed", (*payload)["error"])
	})
}

func TestHTTPControllerTokenShow(t *testing.T) {
	store := newFakeAccountStore()
	account := seedLocalAccount(t, store, "testuser@example.com", "1234")
	store.grantRole(account.ID, "ROLE_USER", "core")

	auther := newTestAuthenticator(t, store)
	controller := identity.NewHTTPController(auther)

	token, err := auther.Login(context.Background(), "testuser@example.com", "1234")
	require.NoError(t, err)

	t.Run("valid bearer token returns claims", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer " + token)

		var payload map[string]any
		ctx.On("JSON", router.StatusOK, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(map[string]any)
		}).Return(nil)

		require.NoError(t, controller.TokenShow(ctx))

		assert.Equal(t, "testuser@example.com", payload["sub"])
		assert.Equal(t, []string{"ROLE_USER"}, payload["roles"])
		assert.NotZero(t, payload["iat"])
		assert.NotZero(t, payload["exp"])
	})

	t.Run("tampered token collapses to the generic rejection", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer " + tamperSignature(t, token))
		payload := expectJSON(ctx, router.StatusUnauthorized)

		require.NoError(t, controller.TokenShow(ctx))
		assert.Equal(t, "authentication failed", (*payload)["error"])
	})

	t.Run("missing header collapses to the generic rejection", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", router.HeaderAuthorization, "").Return("")
		payload := expectJSON(ctx, router.StatusUnauthorized)

		require.NoError(t, controller.TokenShow(ctx))
		assert.Equal(t, "authentication failed", (*payload)["error"])
	})
}
