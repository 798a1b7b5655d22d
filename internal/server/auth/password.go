package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"sollog/internal/common"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Changing them invalidates stored hashes, since the
// encoded form pins the values used at hashing time.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// HashPassword derives an argon2id hash of password with a random salt and
// returns it in the standard encoded form
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
func HashPassword(password []byte) (string, error) {
	salt := common.GenerateRandByteArray(saltLen)
	hash := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword reports whether password matches the encoded argon2id hash.
// The comparison is constant-time. A malformed encoded value is an error,
// never a match.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: unsupported hash format", common.ErrInternal)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: bad hash version", common.ErrInternal)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("%w: bad hash parameters", common.ErrInternal)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: bad salt encoding", common.ErrInternal)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: bad hash encoding", common.ErrInternal)
	}

	got := argon2.IDKey(password, salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
