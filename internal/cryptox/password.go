// Package cryptox implements the credential hash used by the local backend:
// argon2id over a random per-user salt, verified in constant time.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	scheme    = "argon2id"
	saltSize  = 16
	keySize   = 32
	timeCost  = 1
	memoryKiB = 64 * 1024
	threads   = 4
)

var ErrMalformedHash = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, timeCost, memoryKiB, threads, keySize)
}

// HashPassword returns an encoded "argon2id$<salt>$<key>" string with a
// freshly generated salt.
func HashPassword(password []byte) string {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(password, salt)
	return scheme + "$" + b64.EncodeToString(salt) + "$" + b64.EncodeToString(key)
}

// VerifyPassword reports whether password matches an encoded hash produced by
// HashPassword. A malformed hash never matches.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}
	candidate := DeriveKey(password, salt)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decode(encoded string) (salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != scheme {
		return nil, nil, ErrMalformedHash
	}
	if salt, err = b64.DecodeString(parts[1]); err != nil {
		return nil, nil, ErrMalformedHash
	}
	if key, err = b64.DecodeString(parts[2]); err != nil || len(key) != keySize {
		return nil, nil, ErrMalformedHash
	}
	return salt, key, nil
}

// ConstantTimeEqual compares two strings without leaking where they differ.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
