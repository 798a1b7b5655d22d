package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"sollog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKeyAndIV(t *testing.T) (*Key, []byte) {
	t.Helper()
	k, err := GenerateKey()
	require.NoError(t, err)
	iv, err := GenerateIV()
	require.NoError(t, err)
	return k, iv
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("hello-video"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, 1<<16), // 64 KiB, a small recording
		{0x00},
	}

	for _, p := range payloads {
		k, iv := mustKeyAndIV(t)

		ct, err := Encrypt(p, k, iv)
		require.NoError(t, err)

		pt, err := Decrypt(ct, k, iv)
		require.NoError(t, err)
		assert.Equal(t, p, pt)
	}
}

func TestEncrypt_DeterministicForSameInputs(t *testing.T) {
	k, iv := mustKeyAndIV(t)
	p := []byte("same inputs, same output")

	a, err := Encrypt(p, k, iv)
	require.NoError(t, err)
	b, err := Encrypt(p, k, iv)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDecrypt_TamperDetection(t *testing.T) {
	k, iv := mustKeyAndIV(t)

	ct, err := Encrypt([]byte("tamper with me"), k, iv)
	require.NoError(t, err)

	// Flip one bit at a time across the whole ciphertext, tag included.
	for i := range ct {
		mutated := make([]byte, len(ct))
		copy(mutated, ct)
		mutated[i] ^= 0x01

		_, err := Decrypt(mutated, k, iv)
		require.Error(t, err, "bit flip at byte %d went undetected", i)
		assert.True(t, errors.Is(err, common.ErrAuthentication))
	}
}

func TestDecrypt_WrongKeyOrIV(t *testing.T) {
	k, iv := mustKeyAndIV(t)
	ct, err := Encrypt([]byte("secret"), k, iv)
	require.NoError(t, err)

	otherKey, otherIV := mustKeyAndIV(t)

	_, err = Decrypt(ct, otherKey, iv)
	assert.True(t, errors.Is(err, common.ErrAuthentication))

	_, err = Decrypt(ct, k, otherIV)
	assert.True(t, errors.Is(err, common.ErrAuthentication))
}

func TestCipher_RejectsBadKeyMaterial(t *testing.T) {
	_, iv := mustKeyAndIV(t)

	_, err := Encrypt([]byte("x"), nil, iv)
	assert.True(t, errors.Is(err, common.ErrKeyFormat))

	k, _ := mustKeyAndIV(t)
	_, err = Encrypt([]byte("x"), k, []byte{1, 2, 3})
	assert.True(t, errors.Is(err, common.ErrKeyFormat))
}
