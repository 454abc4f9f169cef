package identity

// Authority is the role-derived token compared during authorization checks.
// Its value equals the role name verbatim; checks use exact string equality.
type Authority = string

// Authorities is the capability view of a role set.
type Authorities []Authority

// ToAuthorities converts a set of role records into the authorization
// representation consumed by access-control checks. Each role maps 1:1 to an
// authority carrying the role name with no transformation. Pure and total:
// nil roles yield an empty set, nil entries are skipped.
func ToAuthorities(roles []*Role) Authorities {
	authorities := make(Authorities, 0, len(roles))
	for _, role := range roles {
		if role == nil {
			continue
		}
		authorities = append(authorities, role.Name)
	}
	return authorities
}

// Contains checks for an authority by exact string equality.
func (a Authorities) Contains(name string) bool {
	for _, authority := range a {
		if authority == name {
			return true
		}
	}
	return false
}

// Strings returns the authority values as a plain string slice, the shape the
// roles claim is serialized in.
func (a Authorities) Strings() []string {
	return []string(a)
}
