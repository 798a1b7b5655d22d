package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"sollog/internal/common"
)

// Encrypt seals plaintext under key and iv using AES-256-GCM. The returned
// ciphertext carries the authentication tag produced by the mode itself;
// nothing is appended manually. The transform is deterministic for identical
// (plaintext, key, iv), which the tests rely on; production flow never
// reuses a key+iv pair on distinct plaintexts.
func Encrypt(plaintext []byte, key *Key, iv []byte) ([]byte, error) {
	aesgcm, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}
	return aesgcm.Seal(nil, iv, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt. A tag verification failure
// (tampered ciphertext, wrong key, or wrong IV) is reported as
// common.ErrAuthentication, distinct from any I/O error, because it signals
// possible tampering or corruption rather than a transient fault. Callers
// must not retry with the same inputs.
func Decrypt(ciphertext []byte, key *Key, iv []byte) ([]byte, error) {
	aesgcm, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}
	plaintext, err := aesgcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuthentication, err)
	}
	return plaintext, nil
}

func newGCM(key *Key, iv []byte) (cipher.AEAD, error) {
	if key == nil || len(key.raw) != KeySize {
		return nil, fmt.Errorf("%w: no key material", common.ErrKeyFormat)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: expected %d-byte iv, got %d", common.ErrKeyFormat, IVSize, len(iv))
	}
	block, err := aes.NewCipher(key.raw)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
