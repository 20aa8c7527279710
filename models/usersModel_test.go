package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserString(t *testing.T) {
	doctor := &User{Username: "doctor1", Profile: &Profile{Role: RoleDoctor}}
	assert.Equal(t, "doctor1 (doctor)", doctor.String())
	assert.Equal(t, "doctor1 (doctor)", fmt.Sprint(doctor))

	assert.Equal(t, "nobody", (&User{Username: "nobody"}).String())
}

func TestUserIsAuthenticated(t *testing.T) {
	var missing *User
	assert.False(t, missing.IsAuthenticated())
	assert.False(t, (&User{Username: "new", IsActive: true}).IsAuthenticated())
	assert.False(t, (&User{ID: 1, Username: "old"}).IsAuthenticated())
	assert.True(t, (&User{ID: 1, Username: "active", IsActive: true}).IsAuthenticated())
}
