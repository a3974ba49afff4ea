package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUser(t *testing.T) {
	u := newUser(" Admin@Example.com ", " admin ", []byte("hash"), false)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, "admin", u.Username)
	assert.True(t, u.IsActive)

	u = newUser("ops@example.com", "ops", []byte("hash"), true)
	assert.False(t, u.IsActive, "inactive flag must create a deactivated account")
}
