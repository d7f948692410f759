// Package checksum computes the content fingerprint stored alongside
// document payloads. SHA-256 is the single digest used on every path
// that writes content (create and replace); the value is recorded for
// integrity verification, not used as a storage key.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the lowercase hex SHA-256 digest of b.
func Sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
