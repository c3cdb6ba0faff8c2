package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("Admin").Valid())
	assert.False(t, Role("superuser").Valid())
}

func TestAccount_Identity(t *testing.T) {
	a := &Account{ID: "a1", Email: "alice@example.com", PasswordHash: "$2a$...", Role: RoleAdmin}

	assert.Equal(t, Identity{AccountID: "a1", Email: "alice@example.com", Role: RoleAdmin}, a.Identity())
}
