// Package cryptox generates panel account credentials and the one-way
// fingerprints stored in their place.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// DefaultPasswordLength is the length of generated panel passwords.
const DefaultPasswordLength = 12

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GeneratePassword returns length characters drawn uniformly from
// [A-Za-z0-9] using crypto/rand. A non-positive length yields "".
//
// It panics if the system random source fails, since no caller can
// recover a usable credential from that state.
func GeneratePassword(length int) string {
	if length <= 0 {
		return ""
	}

	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("cryptox: system random source failed: " + err.Error())
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out)
}

// Fingerprint returns the lowercase hex SHA-256 digest of the UTF-8 bytes of
// password. The value is what gets persisted; the plaintext never is.
func Fingerprint(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
