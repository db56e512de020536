package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherHashAndVerify(t *testing.T) {
	h := NewHasher()

	hash, salt, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.Len(t, salt, 64)
	assert.NotEmpty(t, hash)

	assert.True(t, h.Verify("correct horse battery staple", hash, salt))
	assert.False(t, h.Verify("wrong password", hash, salt))
}

func TestHasherSaltsAreUnique(t *testing.T) {
	h := NewHasher()

	hash1, salt1, err := h.Hash("same password")
	require.NoError(t, err)
	hash2, salt2, err := h.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2, "equal passwords must not share a digest")
}

func TestHasherVerifyWrongSalt(t *testing.T) {
	h := NewHasher()

	hash, _, err := h.Hash("password123")
	require.NoError(t, err)
	_, otherSalt, err := h.Hash("password123")
	require.NoError(t, err)

	assert.False(t, h.Verify("password123", hash, otherSalt))
}
