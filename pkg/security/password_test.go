package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/security"
)

// cheap keeps the tests fast; production costs come from config defaults.
func cheap(memoryKB, passes int) config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    memoryKB,
		ArgonTime:        passes,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("Kisan@2024", cheap(8192, 1))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"), hash)

	ok, err := security.VerifyPassword("Kisan@2024", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifyPassword("kisan@2024", hash)
	require.NoError(t, err)
	assert.False(t, ok, "passwords are case sensitive")
}

func TestHashPasswordSaltsEveryHash(t *testing.T) {
	cfg := cheap(8192, 1)
	first, err := security.HashPassword("same-password", cfg)
	require.NoError(t, err)
	second, err := security.HashPassword("same-password", cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := security.HashPassword("", config.PasswordConfig{})
	assert.Error(t, err)
}

func TestNeedsRehash(t *testing.T) {
	weak := cheap(8192, 1)
	hash, err := security.HashPassword("harvest-2024", weak)
	require.NoError(t, err)

	assert.False(t, security.NeedsRehash(hash, weak))
	assert.True(t, security.NeedsRehash(hash, cheap(16384, 1)), "more memory")
	assert.True(t, security.NeedsRehash(hash, cheap(8192, 2)), "more passes")
	assert.True(t, security.NeedsRehash("garbage", weak))
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	for name, encoded := range map[string]string{
		"not phc":       "not-a-hash",
		"old version":   "$argon2id$v=16$m=8,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5",
		"zero memory":   "$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5",
		"argon2i":       "$argon2i$v=19$m=8,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5",
		"empty salt":    "$argon2id$v=19$m=8,t=1,p=1$$a2V5a2V5a2V5a2V5a2V5a2V5",
		"bad base64":    "$argon2id$v=19$m=8,t=1,p=1$!!!$a2V5a2V5a2V5a2V5a2V5a2V5",
		"missing parts": "$argon2id$v=19$m=8,t=1,p=1",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := security.VerifyPassword("x", encoded)
			assert.ErrorIs(t, err, security.ErrInvalidHash)
		})
	}
}
