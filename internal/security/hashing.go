// Package security provides password hashing, timing-safe comparison, and the
// password strength policy. Callers must not log or persist plaintext passwords.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinIterations is the lowest accepted PBKDF2 iteration count.
	MinIterations = 100000
	// saltLen is the raw salt length in bytes before base64 encoding.
	saltLen = 16
	// keyLen is the derived key length in bytes (256-bit).
	keyLen = 32
	// recordDelimiter joins the encoded salt and key. Neither std base64 nor hex
	// can produce it, so a record splits unambiguously.
	recordDelimiter = "$"
)

// ErrInvalidRecordFormat is returned by Verify for records that cannot be parsed:
// missing delimiter, undecodable salt, or undecodable key. It is distinct from a
// wrong-password result so callers never conflate corrupt storage with a mismatch.
var ErrInvalidRecordFormat = errors.New("security: invalid password record format")

// Hasher derives and verifies salted PBKDF2-SHA256 password records.
type Hasher struct {
	Iterations int
}

// NewHasher returns a Hasher with the given PBKDF2 iteration count.
// Counts below MinIterations (including zero) are raised to MinIterations.
func NewHasher(iterations int) *Hasher {
	if iterations < MinIterations {
		iterations = MinIterations
	}
	return &Hasher{Iterations: iterations}
}

// Hash derives a salted record for password. A fresh 16-byte salt is drawn from
// crypto/rand per call, so two hashes of the same password differ. The KDF salt is
// the UTF-8 bytes of the base64-encoded salt string, and the record is
// "salt_b64$key_hex". Returns an error only when the random source is unavailable,
// which callers must treat as fatal for the operation.
func (h *Hasher) Hash(password string) (string, error) {
	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("security: random source unavailable: %w", err)
	}
	salt := base64.StdEncoding.EncodeToString(raw)
	key := pbkdf2.Key([]byte(password), []byte(salt), h.Iterations, keyLen, sha256.New)
	return salt + recordDelimiter + hex.EncodeToString(key), nil
}

// Verify re-derives the key for password under the record's stored salt and compares
// it to the stored key in constant time. Returns (false, ErrInvalidRecordFormat) for
// malformed records and (false, nil) for a plain mismatch.
func (h *Hasher) Verify(password, record string) (bool, error) {
	salt, keyHex, ok := strings.Cut(record, recordDelimiter)
	if !ok || salt == "" || keyHex == "" {
		return false, ErrInvalidRecordFormat
	}
	if _, err := base64.StdEncoding.DecodeString(salt); err != nil {
		return false, ErrInvalidRecordFormat
	}
	stored, err := hex.DecodeString(keyHex)
	if err != nil || len(stored) != keyLen {
		return false, ErrInvalidRecordFormat
	}
	derived := pbkdf2.Key([]byte(password), []byte(salt), h.Iterations, keyLen, sha256.New)
	return ConstantTimeEqual(derived, stored), nil
}
