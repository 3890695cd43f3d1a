// Package domain holds the verification-code entry model and code generation.
package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeDigits is the width of a verification code.
const CodeDigits = 4

// DefaultTTL is the default lifetime of a pending verification code.
const DefaultTTL = 30 * time.Minute

// codeSpace is the size of the code space (10^CodeDigits).
var codeSpace = big.NewInt(10000)

// Entry is a pending one-time code for an identity. Payload carries whatever must
// survive the issue/consume round trip (e.g. pending registration fields with the
// already-hashed password) and never the plaintext password.
type Entry struct {
	Identity  string
	Code      string
	ExpiresAt time.Time
	Payload   []byte
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// GenerateCode returns a uniformly random zero-padded 4-digit code (e.g. "0042").
// crypto/rand.Int draws without modulo bias. Uses crypto/rand; an error means the
// random source is unavailable and the operation must abort.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("otc: random source unavailable: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeDigits, n.Int64()), nil
}
