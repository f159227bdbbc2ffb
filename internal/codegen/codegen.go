// Package codegen produces short, human-enterable attendance codes.
//
// Generation is pure: it guarantees alphabet and length, not uniqueness.
// Callers must check the generated value against the active-code set and
// retry on collision.
package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is uppercase alphanumeric with easily-confused characters
// removed (no I, L, O, 0, 1).
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// DefaultLength is the standard attendance-code length.
const DefaultLength = 6

// Generate returns a random code of length characters drawn from Alphabet.
// Lengths below 1 fall back to DefaultLength.
func Generate(length int) (string, error) {
	if length < 1 {
		length = DefaultLength
	}

	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
