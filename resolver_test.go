package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/federated"
)

func TestResolveLocal(t *testing.T) {
	ctx := context.Background()

	t.Run("known identity", func(t *testing.T) {
		store := newFakeAccountStore()
		seeded, err := store.Insert(ctx, &identity.Account{Username: "testuser@example.com"})
		require.NoError(t, err)

		resolver := identity.NewAccountResolver(store)
		account, err := resolver.ResolveLocal(ctx, "testuser@example.com")
		require.NoError(t, err)
		assert.Equal(t, seeded, account)
	})

	t.Run("unknown identity", func(t *testing.T) {
		resolver := identity.NewAccountResolver(newFakeAccountStore())
		account, err := resolver.ResolveLocal(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, identity.ErrAccountNotFound)
		assert.Nil(t, account)
	})
}

func TestResolveOrProvisionFederated(t *testing.T) {
	ctx := context.Background()

	googleProfile := func() *federated.Profile {
		return &federated.Profile{
			Provider:       "google",
			ProviderUserID: "108123",
			Email:          "person@example.com",
			Name:           "Person Example",
		}
	}

	t.Run("provisions on first login", func(t *testing.T) {
		store := newFakeAccountStore()
		resolver := identity.NewAccountResolver(store)

		account, err := resolver.ResolveOrProvisionFederated(ctx, googleProfile())
		require.NoError(t, err)

		assert.Equal(t, "person@example.com", account.Username)
		assert.Equal(t, "GOOGLE_OAUTH", account.PasswordHash)
		assert.Equal(t, "Person Example", account.Name)
		assert.True(t, account.IsFederated())
		assert.Equal(t, 1, store.inserts)
	})

	t.Run("second login is idempotent", func(t *testing.T) {
		store := newFakeAccountStore()
		resolver := identity.NewAccountResolver(store)

		first, err := resolver.ResolveOrProvisionFederated(ctx, googleProfile())
		require.NoError(t, err)

		second, err := resolver.ResolveOrProvisionFederated(ctx, googleProfile())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, store.inserts)
		assert.Equal(t, 1, store.count())
	})

	t.Run("existing account attributes stay untouched", func(t *testing.T) {
		store := newFakeAccountStore()
		resolver := identity.NewAccountResolver(store)

		account, err := resolver.ResolveOrProvisionFederated(ctx, googleProfile())
		require.NoError(t, err)
		account.Name = "Renamed Locally"

		profile := googleProfile()
		profile.Name = "Fresher Upstream Name"

		again, err := resolver.ResolveOrProvisionFederated(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Locally", again.Name)
	})

	t.Run("falls back to provider-qualified identity without email", func(t *testing.T) {
		store := newFakeAccountStore()
		resolver := identity.NewAccountResolver(store)

		account, err := resolver.ResolveOrProvisionFederated(ctx, &federated.Profile{
			Provider:       "kakao",
			ProviderUserID: "98765",
			Name:           "No Mail",
		})
		require.NoError(t, err)

		assert.Equal(t, "kakaoUser_98765", account.Username)
		assert.Equal(t, "KAKAO_OAUTH", account.PasswordHash)
	})

	t.Run("same subject id on different providers yields distinct accounts", func(t *testing.T) {
		store := newFakeAccountStore()
		resolver := identity.NewAccountResolver(store)

		kakao, err := resolver.ResolveOrProvisionFederated(ctx, &federated.Profile{
			Provider:       "kakao",
			ProviderUserID: "42",
		})
		require.NoError(t, err)

		google, err := resolver.ResolveOrProvisionFederated(ctx, &federated.Profile{
			Provider:       "google",
			ProviderUserID: "42",
		})
		require.NoError(t, err)

		assert.NotEqual(t, kakao.Username, google.Username)
		assert.NotEqual(t, kakao.ID, google.ID)
		assert.Equal(t, 2, store.count())
	})

	t.Run("incomplete profile", func(t *testing.T) {
		resolver := identity.NewAccountResolver(newFakeAccountStore())

		account, err := resolver.ResolveOrProvisionFederated(ctx, &federated.Profile{
			Provider: "google",
		})
		assert.ErrorIs(t, err, federated.ErrIncompleteProfile)
		assert.Nil(t, account)
	})

	t.Run("recovers when a concurrent login wins the insert", func(t *testing.T) {
		winner := &identity.Account{Username: "person@example.com"}

		store := new(MockAccountStore)
		store.On("FindByIdentity", mock.Anything, "person@example.com").
			Return(nil, identity.ErrAccountNotFound).Once()
		store.On("Insert", mock.Anything, mock.Anything).
			Return(nil, identity.ErrDuplicateIdentity).Once()
		store.On("FindByIdentity", mock.Anything, "person@example.com").
			Return(winner, nil).Once()

		resolver := identity.NewAccountResolver(store)
		account, err := resolver.ResolveOrProvisionFederated(ctx, googleProfile())
		require.NoError(t, err)

		assert.Equal(t, winner, account)
		store.AssertExpectations(t)
	})
}
