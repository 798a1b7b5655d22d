// Package cryptox implements the envelope-encryption primitives shared by
// the capture client and the server: AES-256-GCM keys with a portable JWK
// form, 12-byte random IVs with a canonical hex wire encoding, and the
// authenticated encrypt/decrypt transforms.
package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"sollog/internal/common"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the GCM nonce length in bytes. An IV must never be reused
	// with the same key for two different plaintexts.
	IVSize = 12

	// jwkAlg is the only algorithm identifier accepted in serialized keys.
	jwkAlg = "A256GCM"
)

// Key is an in-memory handle to a symmetric key. It is never persisted
// directly; only its exported JWK form is stored or transported.
type Key struct {
	raw []byte
}

// GenerateKey produces a fresh random 256-bit key. Each key is intended for
// exactly one object's lifetime.
func GenerateKey() (*Key, error) {
	raw := make([]byte, KeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return &Key{raw: raw}, nil
}

// Wipe zeroes the key material. The handle must not be used afterwards.
func (k *Key) Wipe() {
	common.WipeByteArray(k.raw)
}

// GenerateIV returns a fresh 12-byte random nonce from a cryptographically
// secure source.
func GenerateIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// jwk is the serialized key object (RFC 7517, symmetric "oct" key).
type jwk struct {
	Kty    string   `json:"kty"`
	K      string   `json:"k"`
	Alg    string   `json:"alg,omitempty"`
	Ext    bool     `json:"ext"`
	KeyOps []string `json:"key_ops,omitempty"`
}

// ExportKey serializes a key to its portable JWK JSON form. The result is
// lossless: ImportKey(ExportKey(k)) yields a key with identical material.
func ExportKey(k *Key) (string, error) {
	if k == nil || len(k.raw) != KeySize {
		return "", fmt.Errorf("%w: no key material", common.ErrKeyFormat)
	}
	b, err := json.Marshal(jwk{
		Kty:    "oct",
		K:      base64.RawURLEncoding.EncodeToString(k.raw),
		Alg:    jwkAlg,
		Ext:    true,
		KeyOps: []string{"encrypt", "decrypt"},
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ImportKey reconstructs a usable key handle from its JWK JSON form.
// It returns common.ErrKeyFormat (wrapped) when the serialized form is
// malformed, is not a symmetric key, specifies an unsupported algorithm,
// or does not carry exactly 256 bits of key material.
func ImportKey(serialized string) (*Key, error) {
	var j jwk
	if err := json.Unmarshal([]byte(serialized), &j); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", common.ErrKeyFormat, err)
	}
	if j.Kty != "oct" {
		return nil, fmt.Errorf("%w: unsupported key type %q", common.ErrKeyFormat, j.Kty)
	}
	if j.Alg != "" && j.Alg != jwkAlg {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", common.ErrKeyFormat, j.Alg)
	}
	raw, err := base64.RawURLEncoding.DecodeString(j.K)
	if err != nil {
		// Tolerate padded base64url, some encoders emit it.
		raw, err = base64.URLEncoding.DecodeString(j.K)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid key encoding", common.ErrKeyFormat)
		}
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: expected %d-byte key, got %d", common.ErrKeyFormat, KeySize, len(raw))
	}
	return &Key{raw: raw}, nil
}

// EncodeIV renders an IV in the canonical wire encoding: a lowercase hex
// string. This is the single encoding accepted system-wide; raw byte arrays
// and comma-joined strings are rejected at every boundary.
func EncodeIV(iv []byte) string {
	return hex.EncodeToString(iv)
}

// DecodeIV parses the canonical hex encoding back into 12 raw bytes,
// returning common.ErrKeyFormat for anything that is not exactly a 24-char
// hex string.
func DecodeIV(s string) ([]byte, error) {
	iv, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: iv is not hex", common.ErrKeyFormat)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: expected %d-byte iv, got %d", common.ErrKeyFormat, IVSize, len(iv))
	}
	return iv, nil
}
