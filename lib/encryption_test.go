package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	key := "0123456789abcdef0123456789abcdef"

	sealed, err := Encrypt([]byte(`{"lines":[]}`), key)
	require.NoError(t, err)

	again, err := Encrypt([]byte(`{"lines":[]}`), key)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "fresh nonce per call")

	plain, err := Decrypt(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, `{"lines":[]}`, string(plain))

	_, err = Decrypt(sealed, "fedcba9876543210fedcba9876543210")
	assert.Error(t, err)

	_, err = Encrypt([]byte("x"), "short")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestGenerateOrderReference(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		ref := GenerateOrderReference()
		assert.Regexp(t, `^BS-[A-HJ-NP-Z2-9]{4}$`, ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 1)
}
