package vault_test

import (
	"strings"
	"testing"

	"github.com/chainvault/chainvault-api/internal/vault"
	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		kind    vault.Chain
		want    bool
	}{
		{"valid evm address", "0x" + strings.Repeat("a", 40), vault.ChainEVM, true},
		{"valid evm mixed case", "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", vault.ChainEVM, true},
		{"evm too short", "0x" + strings.Repeat("a", 39), vault.ChainEVM, false},
		{"evm too long", "0x" + strings.Repeat("a", 41), vault.ChainEVM, false},
		{"evm missing prefix", strings.Repeat("a", 42), vault.ChainEVM, false},
		{"evm non-hex", "0x" + strings.Repeat("g", 40), vault.ChainEVM, false},
		{"valid solana address", "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", vault.ChainSolana, true},
		{"solana too short", "abc", vault.ChainSolana, false},
		{"solana illegal base58 chars", strings.Repeat("0", 40), vault.ChainSolana, false},
		{"solana too long", strings.Repeat("A", 45), vault.ChainSolana, false},
		{"unknown kind", "0x" + strings.Repeat("a", 40), vault.Chain("bitcoin"), false},
		{"cosmos has no address rule", "cosmos1xyz", vault.ChainCosmos, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vault.ValidateAddress(tt.address, tt.kind))
		})
	}
}

func TestValidatePrivateKey(t *testing.T) {
	evmKey := strings.Repeat("46", 32)

	tests := []struct {
		name string
		key  string
		kind vault.Chain
		want bool
	}{
		{"evm bare hex", evmKey, vault.ChainEVM, true},
		{"evm with 0x prefix", "0x" + evmKey, vault.ChainEVM, true},
		{"evm too short", evmKey[:62], vault.ChainEVM, false},
		{"evm non-hex", strings.Repeat("zz", 32), vault.ChainEVM, false},
		{"solana base58 key", strings.Repeat("A1", 44), vault.ChainSolana, true},
		{"solana too short", "A1b2", vault.ChainSolana, false},
		{"solana illegal chars", strings.Repeat("0O", 44), vault.ChainSolana, false},
		{"cosmos presence only", "anything", vault.ChainCosmos, true},
		{"cosmos empty", "", vault.ChainCosmos, false},
		{"unknown kind", evmKey, vault.Chain("bitcoin"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vault.ValidatePrivateKey(tt.key, tt.kind))
		})
	}
}

func TestValidateUserID(t *testing.T) {
	assert.True(t, vault.ValidateUserID("123456789012345678"))
	assert.True(t, vault.ValidateUserID("12345678901234567"))
	assert.False(t, vault.ValidateUserID("1234567890123456"))     // 16 digits
	assert.False(t, vault.ValidateUserID("123456789012345678901")) // 21 digits
	assert.False(t, vault.ValidateUserID("12345678901234567a"))
	assert.False(t, vault.ValidateUserID(""))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips markup characters", `<script>alert("x")</script>`, "scriptalertx/script"},
		{"strips quotes and percent", `it's 100% "fine"`, "its 100 fine"},
		{"plain text untouched", "plain text 123", "plain text 123"},
		{"strips semicolons and plus", "a;b+c&d", "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vault.Sanitize(tt.input))
		})
	}
}
