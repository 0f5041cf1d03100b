package user

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters, stored hashes look like "scrypt:<saltHex>:<hashHex>"
const (
	hashScheme = "scrypt"
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
	saltLen    = 16
	keyLen     = 64
)

// HashPassword derives a salted scrypt hash of pwd.
func HashPassword(pwd string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generating salt")
	}
	key, err := scrypt.Key([]byte(pwd), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", errors.Wrap(err, "deriving key")
	}
	return hashScheme + ":" + hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether pwd matches the stored hash. Malformed hashes never match.
func VerifyPassword(pwd, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 3 || parts[0] != hashScheme || parts[1] == "" || parts[2] == "" {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(parts[2])
	if err != nil || len(expected) == 0 {
		return false
	}
	derived, err := scrypt.Key([]byte(pwd), salt, scryptN, scryptR, scryptP, len(expected))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
