package common

import (
	"crypto/rand"
)

// GenerateRandByteArray returns size bytes read from crypto/rand.
// It panics if the system random source fails, which is not recoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been hashed or verified.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConfirmFunc asks the operator to confirm a destructive action. A false
// result means the action is silently skipped.
type ConfirmFunc func(prompt string) bool

// Always is a ConfirmFunc that accepts every prompt.
func Always(string) bool { return true }

// Never is a ConfirmFunc that declines every prompt.
func Never(string) bool { return false }
