package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, h.Verify("correct horse battery staple", hash))
	require.False(t, h.Verify("wrong password", hash))
	require.False(t, h.Verify("correct horse battery staple", "not-a-hash"))
}
