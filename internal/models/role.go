package models

import (
	"sort"
	"strings"
)

// Role is a granted authority carried in the token's authorities claim.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalises user input: case-insensitive, optional ROLE_ prefix.
// Anything that is not ADMIN becomes USER.
func ParseRole(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// RoleSet returns the sorted, de-duplicated set of roles parsed from raw strings.
// Empty entries are dropped.
func RoleSet(raw []string) []Role {
	seen := map[Role]struct{}{}
	out := make([]Role, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		role := ParseRole(r)
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoleStrings converts roles to their string form.
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// JoinRoles renders roles as the comma-joined authorities claim, normalised and sorted.
func JoinRoles(roles []Role) string {
	return strings.Join(RoleStrings(RoleSet(RoleStrings(roles))), ",")
}
