package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser    Role = "User"
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
)

var knownRoles = map[Role]struct{}{
	RoleUser:    {},
	RoleAdmin:   {},
	RoleManager: {},
}

// Roles returns every member of the enumeration in a stable order.
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleManager}
}

// Valid reports whether r is a member of the enumeration.
func (r Role) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

// ParseRole matches s exactly against the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// RoleSet is the static set of roles a protected operation accepts.
// An empty set places no restriction beyond authentication.
type RoleSet map[Role]struct{}

// ParseRoles builds a RoleSet, rejecting any string outside the enumeration.
func ParseRoles(names ...string) (RoleSet, error) {
	set := make(RoleSet, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		set[r] = struct{}{}
	}
	return set, nil
}

// NewRoleSet builds a RoleSet from already typed roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for r := range s {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
