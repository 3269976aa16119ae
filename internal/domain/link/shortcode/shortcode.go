// Package shortcode generates and validates tracking link codes
package shortcode

import (
	"crypto/rand"
	"fmt"
)

// Length of every short code
const Length = 8

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// bytes at or above this value are rejected to keep the distribution uniform
const maxByte = 256 - (256 % len(alphabet))

// Generate returns a random code of Length characters from [A-Za-z0-9]
func Generate() (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)

	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
	}

	return string(out), nil
}

// Valid reports whether s has the shape of a short code
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
