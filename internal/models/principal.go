package models

import "context"

// Principal is the caller established by the auth gate for a single request.
// ID is zero until the profile has been resolved from the user service.
type Principal struct {
	ID         int64
	Email      string
	Roles      []Role
	Credential string
}

// HasRole reports whether the principal was granted r.
func (p *Principal) HasRole(r Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// PrimaryRole is ADMIN when granted, USER otherwise.
func (p *Principal) PrimaryRole() Role {
	if p.HasRole(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// BearerCredential returns the credential in Authorization header form.
func (p *Principal) BearerCredential() string {
	return "Bearer " + p.Credential
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal bound to ctx, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
