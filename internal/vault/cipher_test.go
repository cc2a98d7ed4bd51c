package vault_test

import (
	"strings"
	"testing"

	"github.com/chainvault/chainvault-api/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-master-secret-0123456789abcdef"

func newTestCipher(t *testing.T) *vault.Cipher {
	t.Helper()
	c, err := vault.NewCipher(testSecret)
	require.NoError(t, err)
	return c
}

// flipHexChar returns s with the hex character at index i replaced by a
// different hex character.
func flipHexChar(s string, i int) string {
	replacement := byte('0')
	if s[i] == '0' {
		replacement = '1'
	}
	return s[:i] + string(replacement) + s[i+1:]
}

func TestNewCipher_RejectsShortSecret(t *testing.T) {
	_, err := vault.NewCipher("too-short")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	plaintexts := []string{
		"0x4646464646464646464646464646464646464646464646464646464646464646",
		"simple",
		"",
		"with spaces and ünïcödé ☃",
		strings.Repeat("long-", 200),
	}

	for _, p := range plaintexts {
		blob, err := c.Encrypt(p)
		require.NoError(t, err)

		got, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestCipher_EncryptIsNonDeterministic(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := c.Encrypt("same plaintext")
	require.NoError(t, err)

	// A fresh IV per call means the same plaintext never repeats a blob.
	assert.NotEqual(t, first, second)
}

func TestCipher_BlobFormat(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.Encrypt("credential")
	require.NoError(t, err)

	parts := strings.Split(blob, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 24) // 12-byte IV
	assert.Len(t, parts[1], 32) // 16-byte tag
	assert.NotEmpty(t, parts[2])
}

func TestCipher_TamperDetection(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.Encrypt("credential")
	require.NoError(t, err)
	parts := strings.Split(blob, ":")

	tests := []struct {
		name string
		blob string
	}{
		{
			name: "flipped tag character",
			blob: parts[0] + ":" + flipHexChar(parts[1], 0) + ":" + parts[2],
		},
		{
			name: "flipped ciphertext character",
			blob: parts[0] + ":" + parts[1] + ":" + flipHexChar(parts[2], 0),
		},
		{
			name: "flipped iv character",
			blob: flipHexChar(parts[0], 0) + ":" + parts[1] + ":" + parts[2],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decrypt(tt.blob)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, vault.IsCryptoError(err, vault.AuthenticationFailed))
		})
	}
}

func TestCipher_WrongKeyFailsAuthentication(t *testing.T) {
	c := newTestCipher(t)
	other, err := vault.NewCipher("another-master-secret-0123456789abcdef01")
	require.NoError(t, err)

	blob, err := c.Encrypt("credential")
	require.NoError(t, err)

	_, err = other.Decrypt(blob)
	require.Error(t, err)
	assert.True(t, vault.IsCryptoError(err, vault.AuthenticationFailed))
}

func TestCipher_MalformedBlobs(t *testing.T) {
	c := newTestCipher(t)

	valid, err := c.Encrypt("credential")
	require.NoError(t, err)
	parts := strings.Split(valid, ":")

	tests := []struct {
		name string
		blob string
	}{
		{name: "empty string", blob: ""},
		{name: "no separators", blob: "deadbeef"},
		{name: "two components", blob: parts[0] + ":" + parts[1]},
		{name: "four components", blob: valid + ":deadbeef"},
		{name: "non-hex iv", blob: "zz" + parts[0][2:] + ":" + parts[1] + ":" + parts[2]},
		{name: "non-hex tag", blob: parts[0] + ":not-hex-at-all!:" + parts[2]},
		{name: "non-hex ciphertext", blob: parts[0] + ":" + parts[1] + ":xyz"},
		{name: "truncated iv", blob: parts[0][:8] + ":" + parts[1] + ":" + parts[2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decrypt(tt.blob)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, vault.IsCryptoError(err, vault.MalformedBlob))
		})
	}
}

func TestCipher_Hash(t *testing.T) {
	c := newTestCipher(t)

	// SHA-256 of "abc", a published test vector.
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		c.Hash("abc"))
	assert.Equal(t, c.Hash("same"), c.Hash("same"))
	assert.NotEqual(t, c.Hash("one"), c.Hash("two"))
}

func TestCipher_SecureToken(t *testing.T) {
	c := newTestCipher(t)

	tok, err := c.SecureToken(16)
	require.NoError(t, err)
	assert.Len(t, tok, 32) // hex doubles the byte length

	other, err := c.SecureToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
