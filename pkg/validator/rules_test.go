package validator_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/videovault/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(
		validator.RequiredString("email", "user@example.com"),
		validator.ValidEmail("email", "user@example.com"),
	))

	err := validator.Apply(
		validator.RequiredString("email", " "),
		validator.ValidEmail("email", " "),
		validator.LengthBetween("password", "short", 8, 128),
	)
	require.Error(t, err)

	ve, ok := validator.Extract(fmt.Errorf("register: %w", err))
	require.True(t, ok)
	assert.Len(t, ve, 3)
	assert.True(t, ve.Has("password"))
	assert.Equal(t, "field is required", ve.Fields()["email"])
	assert.Contains(t, err.Error(), "password: must be between 8 and 128 characters long")
	assert.True(t, validator.IsValidationError(err))
	assert.False(t, validator.IsValidationError(fmt.Errorf("plain")))
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"admin@example.com", "a.b+tag@sub.example.org"}
	invalid := []string{"", "plain", "a@b", "a@.com", "a@b..com", "Name <a@b.com>", "a@b.com."}

	for _, v := range valid {
		assert.True(t, validator.ValidEmail("email", v).Check(), v)
	}
	for _, v := range invalid {
		assert.False(t, validator.ValidEmail("email", v).Check(), v)
	}
}

func TestOtherRules(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.LengthBetween("p", "пароль12", 8, 128).Check())
	assert.False(t, validator.LengthBetween("p", "пароль1", 8, 128).Check())

	assert.True(t, validator.ValidURLWithScheme("url", "https://youtu.be/abc", "http", "https").Check())
	assert.False(t, validator.ValidURLWithScheme("url", "ftp://youtu.be/abc", "http", "https").Check())
	assert.False(t, validator.ValidURLWithScheme("url", "not a url", "http", "https").Check())

	assert.True(t, validator.OneOf("role", "", "USER", "ADMIN").Check())
	assert.True(t, validator.OneOf("role", "ADMIN", "USER", "ADMIN").Check())
	assert.False(t, validator.OneOf("role", "ROOT", "USER", "ADMIN").Check())

	assert.True(t, validator.Between("limit", 50, 1, 100).Check())
	assert.False(t, validator.Between("limit", 0, 1, 100).Check())
}
