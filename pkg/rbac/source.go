package rbac

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"maps"

	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRoles []byte

// Role is a set of permissions plus the roles it inherits from.
type Role struct {
	Permissions []string `yaml:"permissions"`
	Inherits    []string `yaml:"inherits"`
}

// RoleSource provides role definitions.
type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}

// RoleSourceFunc adapts a function to RoleSource.
type RoleSourceFunc func(ctx context.Context) (map[string]Role, error)

// Load implements RoleSource.
func (f RoleSourceFunc) Load(ctx context.Context) (map[string]Role, error) {
	return f(ctx)
}

// StaticSource serves a fixed role map.
func StaticSource(roles map[string]Role) RoleSource {
	cp := maps.Clone(roles)
	return RoleSourceFunc(func(context.Context) (map[string]Role, error) {
		return cp, nil
	})
}

type yamlDocument struct {
	Roles map[string]Role `yaml:"roles"`
}

// YAMLSource parses a document of the form {roles: {NAME: {permissions, inherits}}}.
// Unknown fields are rejected.
func YAMLSource(data []byte) RoleSource {
	return RoleSourceFunc(func(context.Context) (map[string]Role, error) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		var doc yamlDocument
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Join(ErrInvalidRoleDefinition, err)
		}
		return doc.Roles, nil
	})
}

// DefaultSource returns the embedded USER/ADMIN role set.
func DefaultSource() RoleSource {
	return YAMLSource(defaultRoles)
}
