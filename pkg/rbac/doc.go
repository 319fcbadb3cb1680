// Package rbac maps role names to permission scopes with single-level or
// multi-level inheritance.
//
// Roles are loaded from a RoleSource, flattened once and checked with
// Authorizer.Can. The default role set ships as embedded YAML:
//
//	authz, err := rbac.NewAuthorizer(ctx, rbac.DefaultSource())
//	if err := authz.Can(string(user.Role), "users.list"); err != nil {
//		// ErrInsufficientPermissions or ErrInvalidRole
//	}
//
// Callers must pass the role from a fresh user record, never one cached in a
// token, so role changes take effect on the next request.
package rbac
