package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewAESEncryptor([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	plaintext := "Patient presents with mild asthma."

	sealed, err := enc.EncryptString(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)
	assert.NotContains(t, sealed, "asthma")

	plain, err := enc.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, plain)
}

func TestAESEncryptor_NonDeterministic(t *testing.T) {
	enc, err := NewAESEncryptor([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	a, err := enc.EncryptString("same text")
	require.NoError(t, err)
	b, err := enc.EncryptString("same text")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestAESEncryptor_WrongKey(t *testing.T) {
	enc1, err := NewAESEncryptor([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	enc2, err := NewAESEncryptor([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	sealed, err := enc1.EncryptString("secret")
	require.NoError(t, err)

	_, err = enc2.DecryptString(sealed)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestAESEncryptor_InvalidKeySize(t *testing.T) {
	_, err := NewAESEncryptor([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestAESEncryptor_DecryptGarbage(t *testing.T) {
	enc, err := NewAESEncryptor([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	_, err = enc.DecryptString("not base64 at all !!!")
	assert.ErrorIs(t, err, ErrDecryption)

	_, err = enc.DecryptString("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrDecryption)
}
