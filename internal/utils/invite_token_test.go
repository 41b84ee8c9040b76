package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestGenerateLinkToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 2000; i++ {
		token, err := GenerateLinkToken()
		require.NoError(t, err)

		assert.Len(t, token, LinkTokenLength)
		assert.True(t, IsWellFormedLinkToken(token), "token %q outside alphabet", token)
		assert.False(t, strings.ContainsAny(token, "0OIl1"), "token %q contains an ambiguous character", token)

		seen[token] = struct{}{}
	}
	// 57^12 possibilities; a collision in 2000 draws means the RNG is broken
	assert.Len(t, seen, 2000)
}

func TestAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0OIl1" {
		assert.NotContains(t, LinkTokenAlphabet, string(c))
	}
	assert.Len(t, LinkTokenAlphabet, 57)
}

func TestGenerateSixDigitCode(t *testing.T) {
	for i := 0; i < 2000; i++ {
		code, err := GenerateSixDigitCode()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
		assert.True(t, IsWellFormedCode(code))
	}
}

func TestIsWellFormedCode(t *testing.T) {
	cases := map[string]bool{
		"123456":  true,
		"012345":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		"":        false,
		"١٢٣٤٥٦":  false,
	}
	for input, want := range cases {
		assert.Equal(t, want, IsWellFormedCode(input), "input %q", input)
	}
}

func TestIsWellFormedLinkToken(t *testing.T) {
	assert.True(t, IsWellFormedLinkToken("ABCDEFGHJKLM"))
	assert.False(t, IsWellFormedLinkToken("ABCDEFGHJKL0"))
	assert.False(t, IsWellFormedLinkToken("short"))
}
