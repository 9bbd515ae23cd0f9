// Package id generates prefixed, URL-safe identifiers for public resources.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the random part length of every public id.
	DefaultLength = 16
)

const (
	PrefixAccount  = "acc"
	PrefixArtifact = "art"
)

// Generate creates a random Base62 string of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// NewAccountID returns a fresh "acc_" id.
func NewAccountID() (string, error) {
	return withPrefix(PrefixAccount)
}

// NewArtifactID returns a fresh "art_" id.
func NewArtifactID() (string, error) {
	return withPrefix(PrefixArtifact)
}

func withPrefix(prefix string) (string, error) {
	s, err := Generate(DefaultLength)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

// Validate checks that s is "<prefix>_" followed by DefaultLength Base62 chars.
func Validate(prefix, s string) error {
	rest, ok := strings.CutPrefix(s, prefix+"_")
	if !ok {
		return fmt.Errorf("id %q: expected prefix %q", s, prefix)
	}
	if len(rest) != DefaultLength {
		return fmt.Errorf("id %q: expected %d characters after prefix", s, DefaultLength)
	}
	for i := 0; i < len(rest); i++ {
		if strings.IndexByte(alphabet, rest[i]) < 0 {
			return fmt.Errorf("id %q: invalid character %q", s, rest[i])
		}
	}
	return nil
}
