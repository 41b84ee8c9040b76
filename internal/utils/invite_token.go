package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// LinkTokenLength is the fixed length of an invitation link token
	LinkTokenLength = 12

	// LinkTokenAlphabet omits characters that are easy to mistranscribe: 0 O I l 1
	LinkTokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

	minCode = 100000
	maxCode = 999999
)

var alphabetSize = big.NewInt(int64(len(LinkTokenAlphabet)))

// GenerateLinkToken returns a 12 character token drawn uniformly from LinkTokenAlphabet.
// Uniqueness is not guaranteed here; callers insert against a unique index and retry.
func GenerateLinkToken() (string, error) {
	token := make([]byte, LinkTokenLength)
	for i := range token {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate link token: %w", err)
		}
		token[i] = LinkTokenAlphabet[idx.Int64()]
	}
	return string(token), nil
}

// GenerateSixDigitCode returns a decimal code in [100000, 999999]
func GenerateSixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+minCode), nil
}

// IsWellFormedCode reports whether s is exactly six ASCII digits
func IsWellFormedCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsWellFormedLinkToken reports whether s could have been produced by GenerateLinkToken
func IsWellFormedLinkToken(s string) bool {
	if len(s) != LinkTokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return false
		}
	}
	return true
}

func inAlphabet(c byte) bool {
	for i := 0; i < len(LinkTokenAlphabet); i++ {
		if LinkTokenAlphabet[i] == c {
			return true
		}
	}
	return false
}
