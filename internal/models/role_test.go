package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	admin, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin)

	user, err := ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, user)

	for _, bad := range []string{"", "Admin", "superuser", "admin "} {
		_, err := ParseRole(bad)
		assert.Error(t, err, "role %q must not parse", bad)
	}
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, "/dashboard", RoleAdmin.LandingPath())
	assert.Equal(t, "/user_dashboard", RoleUser.LandingPath())
}
