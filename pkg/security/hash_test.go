package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256Hash(t *testing.T) {
	h := NewSHA256()

	hash, err := h.GenerateFromPassword("test1234")
	require.NoError(t, err)
	assert.Equal(t, "937e8d5fbb48bd4949536cd65b8d35c426b80d2f830c5c308e2cdec422ae2244", hash)
	assert.True(t, h.Deterministic())

	ok, err := h.VerifyPasswd("test1234", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPasswd("test12345", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonHash(t *testing.T) {
	h := New()
	h.Memory = 8 * 1024
	h.Iterations = 1

	hash, err := h.GenerateFromPassword("admin1234")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$")
	assert.False(t, h.Deterministic())

	again, err := h.GenerateFromPassword("admin1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ between hashes")

	ok, err := h.VerifyPasswd("admin1234", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPasswd("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.VerifyPasswd("admin1234", "not-a-hash")
	assert.Error(t, err)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("sha256")
	require.NoError(t, err)
	assert.IsType(t, &SHA256Hash{}, h)

	h, err = NewHasher("argon2id")
	require.NoError(t, err)
	assert.IsType(t, &ArgonHash{}, h)

	_, err = NewHasher("md5")
	assert.Error(t, err)
}
