package identity

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the bun-backed account store. It satisfies AccountStore and
// adds transactional variants plus the role-assignment hook used by external
// administrative processes.
type Accounts interface {
	repository.Repository[*Account]

	FindByIdentity(ctx context.Context, identity string) (*Account, error)
	FindByIdentityTx(ctx context.Context, tx bun.IDB, identity string) (*Account, error)
	Insert(ctx context.Context, account *Account) (*Account, error)
	InsertTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
	ListRoles(ctx context.Context, account *Account) ([]*Role, error)
	ListRolesTx(ctx context.Context, tx bun.IDB, account *Account) ([]*Role, error)
	AssignRole(ctx context.Context, account *Account, role *Role) error
	AssignRoleTx(ctx context.Context, tx bun.IDB, account *Account, role *Role) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts                        = (*accounts)(nil)
	_ AccountStore                    = (*accounts)(nil)
	_ repository.Repository[*Account] = (*accounts)(nil)
)

// NewAccountsRepository returns the accounts repository backed by db.
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) FindByIdentity(ctx context.Context, identity string) (*Account, error) {
	return a.FindByIdentityTx(ctx, a.db, identity)
}

// FindByIdentityTx looks an account up by its canonical identity string, the
// sole identity-resolution key.
func (a *accounts) FindByIdentityTx(ctx context.Context, tx bun.IDB, identity string) (*Account, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, ErrAccountNotFound
	}

	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", identity).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || isEmptyResult(err) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "account lookup failed")
	}

	return record, nil
}

func (a *accounts) Insert(ctx context.Context, account *Account) (*Account, error) {
	return a.InsertTx(ctx, a.db, account)
}

// InsertTx persists a new account. A violation of the identity uniqueness
// constraint maps to ErrDuplicateIdentity so the resolver can re-read.
func (a *accounts) InsertTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	prepareAccountDefaults(account)

	created, err := a.Repository.CreateTx(ctx, tx, account)
	if err != nil {
		if IsDuplicateIdentity(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "account insert failed")
	}

	return created, nil
}

func (a *accounts) ListRoles(ctx context.Context, account *Account) ([]*Role, error) {
	return a.ListRolesTx(ctx, a.db, account)
}

// ListRolesTx traverses the accounts->roles join explicitly so the read cost
// is visible instead of hidden behind an eagerly loaded object graph.
func (a *accounts) ListRolesTx(ctx context.Context, tx bun.IDB, account *Account) ([]*Role, error) {
	if account == nil || account.ID == uuid.Nil {
		return []*Role{}, nil
	}

	roles := []*Role{}
	err := tx.NewSelect().
		Model(&roles).
		Join("JOIN account_roles AS acrl ON acrl.role_id = rl.id").
		Where("acrl.account_id = ?", account.ID).
		Scan(ctx)

	if err != nil {
		if isEmptyResult(err) {
			return []*Role{}, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "role listing failed")
	}

	return roles, nil
}

func (a *accounts) AssignRole(ctx context.Context, account *Account, role *Role) error {
	return a.AssignRoleTx(ctx, a.db, account, role)
}

// AssignRoleTx attaches a role grant. Role mutation belongs to external
// administrative processes; the login paths never call this.
func (a *accounts) AssignRoleTx(ctx context.Context, tx bun.IDB, account *Account, role *Role) error {
	if account == nil || role == nil {
		return errors.New("account and role are required", errors.CategoryBadInput)
	}

	_, err := tx.NewInsert().
		Model(&AccountRole{AccountID: account.ID, RoleID: role.ID}).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "role assignment failed")
	}

	return nil
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.PasswordHash == "" {
		// accounts must never be persisted with an empty secret
		record.PasswordHash = RandomPasswordHash()
	}
}

func isEmptyResult(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no rows in result set")
}
