package passwords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(testParams)

	encoded, err := h.Hash("abc123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"), encoded)
	assert.NotContains(t, encoded, "abc123")

	ok, err := h.Verify("abc123", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("abc124", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_SaltsDiffer(t *testing.T) {
	h := NewHasher(testParams)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerify_UsesParamsFromHash(t *testing.T) {
	encoded, err := NewHasher(testParams).Hash("pw1234")
	require.NoError(t, err)

	other := NewHasher(Params{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	ok, err := other.Verify("pw1234", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_InvalidHash(t *testing.T) {
	h := NewHasher(testParams)

	for _, bad := range []string{
		"",
		"plaintext",
		"$2y$10$abcdefghijklmnopqrstuv",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	} {
		ok, err := h.Verify("pw", bad)
		assert.ErrorIs(t, err, ErrInvalidHash, "hash %q", bad)
		assert.False(t, ok)
	}
}
