package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-identity/federated"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// AccountResolver maps canonical identity strings to durable accounts,
// provisioning one on first sight of a federated identity. It holds no
// mutable state of its own: correctness under concurrent first logins is
// delegated to the store's uniqueness constraint plus a single
// read-after-conflict retry.
type AccountResolver struct {
	store  AccountStore
	logger Logger
}

// NewAccountResolver returns a resolver over the given store.
func NewAccountResolver(store AccountStore) *AccountResolver {
	return &AccountResolver{
		store:  store,
		logger: defLogger{},
	}
}

func (r *AccountResolver) WithLogger(logger Logger) *AccountResolver {
	r.logger = logger
	return r
}

// ResolveLocal returns the account holding the given canonical identity
// string. Pure read: ErrAccountNotFound when absent, the caller decides
// whether that is fatal or triggers provisioning.
func (r *AccountResolver) ResolveLocal(ctx context.Context, identity string) (*Account, error) {
	account, err := r.store.FindByIdentity(ctx, identity)
	if err != nil {
		if IsAccountNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve account")
	}
	return account, nil
}

// ResolveOrProvisionFederated returns the account for a federated profile,
// creating one on first sight. Repeated logins return the stored account
// unchanged: later-arriving profile attributes never overwrite stored fields.
func (r *AccountResolver) ResolveOrProvisionFederated(ctx context.Context, profile *federated.Profile) (*Account, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	identity := profile.CanonicalIdentity()

	account, err := r.store.FindByIdentity(ctx, identity)
	if err == nil {
		return account, nil
	}
	if !IsAccountNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up federated identity")
	}

	record := &Account{
		ID:           provisionedID(identity),
		Username:     identity,
		PasswordHash: federated.Sentinel(profile.Provider),
		Name:         profile.Name,
	}

	created, err := r.store.Insert(ctx, record)
	if err == nil {
		r.logger.Info("provisioned federated account provider=%s identity=%s", profile.Provider, identity)
		return created, nil
	}

	// A concurrent first login won the insert. The store's uniqueness
	// constraint guarantees exactly one account exists; re-read it.
	if IsDuplicateIdentity(err) {
		r.logger.Debug("federated provisioning lost insert race for %s", identity)
		existing, rerr := r.store.FindByIdentity(ctx, identity)
		if rerr != nil {
			return nil, errors.Wrap(rerr, errors.CategoryInternal, "failed to re-read account after insert conflict")
		}
		return existing, nil
	}

	return nil, errors.Wrap(err, errors.CategoryInternal, "failed to provision federated account")
}

// provisionedID derives a deterministic account id from the canonical
// identity string so retried provisioning attempts agree on the record id.
func provisionedID(identity string) uuid.UUID {
	if id, err := hashid.NewUUID(identity); err == nil {
		return id
	}
	return uuid.New()
}
