// Package cryptox hashes and verifies account passwords with argon2id.
//
// Encoded hashes look like
//
//	argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// where salt and key are unpadded standard base64.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/philharmonia/harmony/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	algorithm = "argon2id"
	saltLen   = 16
	keyLen    = 32

	timeCost    uint32 = 1
	memoryCost  uint32 = 64 * 1024
	parallelism uint8  = 4
)

var ErrMalformedHash = errors.New("malformed password hash")

// DeriveKey stretches password with salt using the package parameters.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, timeCost, memoryCost, parallelism, keyLen)
}

// HashPassword returns the encoded argon2id hash of password with a fresh salt.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltLen)
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := DeriveKey(pw, salt)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm, argon2.Version, memoryCost, timeCost, parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

// VerifyPassword reports whether password matches encoded.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != algorithm {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, ErrMalformedHash
	}
	// argon2 panics on zero time or threads.
	if m < 1 || t < 1 || p < 1 {
		return false, ErrMalformedHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[3])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := b64.DecodeString(parts[4])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
