package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	digest, err := svc.Hash("hunter2secret")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2secret", digest)

	assert.True(t, svc.Compare("hunter2secret", digest))
	assert.False(t, svc.Compare("wrong-password", digest))
}

func TestHashSalted(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	a, err := svc.Hash("same-password")
	require.NoError(t, err)
	b, err := svc.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	_, err := svc.Hash(strings.Repeat("x", 73))
	assert.Error(t, err)
}
