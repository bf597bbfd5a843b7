package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$argon2id$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("same input")
	require.NoError(t, err)
	second, err := HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordCustomParams(t *testing.T) {
	params := Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}
	hash, err := HashPasswordWithParams("per-user cost tuning", params)
	require.NoError(t, err)

	// The cost parameters ride inside the encoding and must survive the
	// round trip, not just the package defaults.
	ok, err := VerifyPassword("per-user cost tuning", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", []byte("not a hash"))
	assert.Error(t, err)

	_, err = VerifyPassword("anything", nil)
	assert.Error(t, err)
}
