package rbac

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrymomot/videovault/pkg/scopes"
)

// Authorizer answers permission checks against a flattened role set.
// It is immutable after construction and safe for concurrent use.
type Authorizer struct {
	permissions map[string][]string
}

// NewAuthorizer loads roles from source, validates inheritance and
// precomputes each role's effective permissions.
func NewAuthorizer(ctx context.Context, source RoleSource) (*Authorizer, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	flat := make(map[string][]string, len(roles))
	for name := range roles {
		perms, err := resolve(name, roles, nil)
		if err != nil {
			return nil, err
		}
		flat[name] = scopes.Normalize(perms)
	}
	return &Authorizer{permissions: flat}, nil
}

func resolve(name string, roles map[string]Role, path []string) ([]string, error) {
	if slices.Contains(path, name) {
		return nil, fmt.Errorf("%w: %v -> %s", ErrCircularInheritance, path, name)
	}
	role, ok := roles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParentRole, name)
	}

	path = append(path, name)
	perms := slices.Clone(role.Permissions)
	for _, parent := range role.Inherits {
		inherited, err := resolve(parent, roles, path)
		if err != nil {
			return nil, err
		}
		perms = append(perms, inherited...)
	}
	return perms, nil
}

// Can returns nil when role holds permission.
func (a *Authorizer) Can(role, permission string) error {
	granted, ok := a.permissions[role]
	if !ok {
		return ErrInvalidRole
	}
	if !scopes.Has(granted, permission) {
		return ErrInsufficientPermissions
	}
	return nil
}

// CanAny returns nil when role holds at least one of permissions.
func (a *Authorizer) CanAny(role string, permissions ...string) error {
	granted, ok := a.permissions[role]
	if !ok {
		return ErrInvalidRole
	}
	if !scopes.HasAny(granted, permissions...) {
		return ErrInsufficientPermissions
	}
	return nil
}

// Permissions returns the effective permissions of role.
func (a *Authorizer) Permissions(role string) []string {
	return slices.Clone(a.permissions[role])
}

// Roles returns every known role name, sorted.
func (a *Authorizer) Roles() []string {
	names := make([]string, 0, len(a.permissions))
	for name := range a.permissions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
