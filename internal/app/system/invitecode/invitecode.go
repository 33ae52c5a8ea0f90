// internal/app/system/invitecode/invitecode.go

// Package invitecode generates group invite codes.
//
// Codes are 6 characters drawn from an alphabet with look-alike characters
// removed (no 0/O, 1/I/L). Uniqueness is not guaranteed by the generator;
// the groups collection carries a unique index on invite_code and creation
// retries on a duplicate-key error.
package invitecode

import (
	"crypto/rand"
	"fmt"
)

// alphabet excludes 0, O, 1, I and L so codes can be read aloud or copied
// from a photo without ambiguity.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Length of a generated invite code.
const Length = 6

// New returns a fresh invite code.
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("invite code entropy: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

// Valid reports whether code has the expected length and alphabet.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		ok := false
		for j := 0; j < len(alphabet); j++ {
			if code[i] == alphabet[j] {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
