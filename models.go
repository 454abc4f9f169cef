package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the durable record for one authenticated subject. Username holds
// the canonical identity string: an email for local accounts, a
// provider-derived email or synthesized placeholder for federated ones. It is
// the sole identity-resolution key and unique across all accounts.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Name          string     `bun:"name" json:"name,omitempty"`
	Roles         []*Role    `bun:"m2m:account_roles,join:Account=Role" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsFederated reports whether the account was provisioned from a federated
// login and carries a provider sentinel instead of a password hash. Such
// accounts never authenticate locally.
func (a *Account) IsFederated() bool {
	return isSentinelCredential(a.PasswordHash)
}

// Role is a named authorization grant plus the owning subsystem it governs.
// Name is the semantic key used in authorization checks and issued tokens;
// Service is informational only.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rl"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Service       string     `bun:"service,notnull" json:"service,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// AccountRole is the accounts<->roles join row. Traversal is one way only,
// Account to Role, through AccountStore.ListRoles.
type AccountRole struct {
	bun.BaseModel `bun:"table:account_roles,alias:acrl"`
	AccountID     uuid.UUID `bun:"account_id,pk,type:uuid" json:"account_id,omitempty"`
	Account       *Account  `bun:"rel:belongs-to,join:account_id=id" json:"-"`
	RoleID        uuid.UUID `bun:"role_id,pk,type:uuid" json:"role_id,omitempty"`
	Role          *Role     `bun:"rel:belongs-to,join:role_id=id" json:"-"`
}
