package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/videovault/pkg/rbac"
)

func TestDefaultSource(t *testing.T) {
	t.Parallel()

	authz, err := rbac.NewAuthorizer(context.Background(), rbac.DefaultSource())
	require.NoError(t, err)

	assert.Equal(t, []string{"ADMIN", "USER"}, authz.Roles())

	tests := []struct {
		role, permission string
		want             error
	}{
		{"USER", "videos.read", nil},
		{"USER", "videos.write", nil},
		{"USER", "billing.checkout", nil},
		{"USER", "users.list", rbac.ErrInsufficientPermissions},
		{"ADMIN", "users.list", nil},
		{"ADMIN", "videos.read", nil},
		{"GUEST", "videos.read", rbac.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.permission, func(t *testing.T) {
			t.Parallel()
			err := authz.Can(tt.role, tt.permission)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorizer_CanAny(t *testing.T) {
	t.Parallel()

	authz, err := rbac.NewAuthorizer(context.Background(), rbac.DefaultSource())
	require.NoError(t, err)

	assert.NoError(t, authz.CanAny("USER", "users.list", "videos.read"))
	assert.ErrorIs(t, authz.CanAny("USER", "users.list"), rbac.ErrInsufficientPermissions)
	assert.ErrorIs(t, authz.CanAny("NOBODY", "videos.read"), rbac.ErrInvalidRole)
}

func TestNewAuthorizer_Inheritance(t *testing.T) {
	t.Parallel()

	authz, err := rbac.NewAuthorizer(context.Background(), rbac.StaticSource(map[string]rbac.Role{
		"viewer": {Permissions: []string{"videos.read"}},
		"editor": {Permissions: []string{"videos.write"}, Inherits: []string{"viewer"}},
		"owner":  {Permissions: []string{"*"}, Inherits: []string{"editor"}},
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"videos.read", "videos.write"}, authz.Permissions("editor"))
	assert.NoError(t, authz.Can("owner", "anything.at.all"))
}

func TestNewAuthorizer_Errors(t *testing.T) {
	t.Parallel()

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()
		_, err := rbac.NewAuthorizer(context.Background(), rbac.StaticSource(map[string]rbac.Role{
			"a": {Inherits: []string{"b"}},
			"b": {Inherits: []string{"a"}},
		}))
		assert.ErrorIs(t, err, rbac.ErrCircularInheritance)
	})

	t.Run("unknown parent", func(t *testing.T) {
		t.Parallel()
		_, err := rbac.NewAuthorizer(context.Background(), rbac.StaticSource(map[string]rbac.Role{
			"a": {Inherits: []string{"ghost"}},
		}))
		assert.ErrorIs(t, err, rbac.ErrUnknownParentRole)
	})

	t.Run("bad yaml", func(t *testing.T) {
		t.Parallel()
		_, err := rbac.NewAuthorizer(context.Background(), rbac.YAMLSource([]byte("roles:\n  USER:\n    perms: [x]\n")))
		assert.ErrorIs(t, err, rbac.ErrInvalidRoleDefinition)
	})

	t.Run("source failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := rbac.NewAuthorizer(context.Background(), rbac.RoleSourceFunc(func(context.Context) (map[string]rbac.Role, error) {
			return nil, boom
		}))
		assert.ErrorIs(t, err, boom)
	})
}
