package identity_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identity "github.com/goliatone/go-identity"
)

// MockAccountStore is a testify mock for error-injection scenarios.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByIdentity(ctx context.Context, ident string) (*identity.Account, error) {
	args := m.Called(ctx, ident)
	var acc *identity.Account
	if v := args.Get(0); v != nil {
		acc = v.(*identity.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccountStore) Insert(ctx context.Context, acc *identity.Account) (*identity.Account, error) {
	args := m.Called(ctx, acc)
	var out *identity.Account
	if v := args.Get(0); v != nil {
		out = v.(*identity.Account)
	}
	return out, args.Error(1)
}

func (m *MockAccountStore) ListRoles(ctx context.Context, acc *identity.Account) ([]*identity.Role, error) {
	args := m.Called(ctx, acc)
	var roles []*identity.Role
	if v := args.Get(0); v != nil {
		roles = v.([]*identity.Role)
	}
	return roles, args.Error(1)
}

// fakeAccountStore is an in-memory store used where the test cares
// about end state rather than call sequencing.
type fakeAccountStore struct {
	mu      sync.Mutex
	records map[string]*identity.Account
	roles   map[uuid.UUID][]*identity.Role
	inserts int
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		records: map[string]*identity.Account{},
		roles:   map[uuid.UUID][]*identity.Role{},
	}
}

func (f *fakeAccountStore) FindByIdentity(_ context.Context, ident string) (*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.records[ident]
	if !ok {
		return nil, identity.ErrAccountNotFound
	}
	return acc, nil
}

func (f *fakeAccountStore) Insert(_ context.Context, acc *identity.Account) (*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[acc.Username]; ok {
		return nil, identity.ErrDuplicateIdentity
	}
	f.inserts++
	f.records[acc.Username] = acc
	return acc, nil
}

func (f *fakeAccountStore) ListRoles(_ context.Context, acc *identity.Account) ([]*identity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[acc.ID], nil
}

func (f *fakeAccountStore) grantRole(accountID uuid.UUID, name, service string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[accountID] = append(f.roles[accountID], &identity.Role{
		ID:      uuid.New(),
		Name:    name,
		Service: service,
	})
}

func (f *fakeAccountStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
