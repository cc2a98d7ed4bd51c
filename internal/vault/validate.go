package vault

import (
	"strings"

	"github.com/mr-tron/base58"
)

// Chain identifies the chain family of a wallet credential. The family
// determines address and private-key format rules.
type Chain string

const (
	ChainEVM    Chain = "evm"
	ChainSolana Chain = "solana"
	ChainCosmos Chain = "cosmos"
	ChainFuel   Chain = "fuel"
	ChainRadix  Chain = "radix"
)

// KnownChain reports whether kind is one of the supported chain families.
func KnownChain(kind Chain) bool {
	switch kind {
	case ChainEVM, ChainSolana, ChainCosmos, ChainFuel, ChainRadix:
		return true
	}
	return false
}

// ValidateAddress checks that address matches the exact on-chain format for
// the given chain family. Unknown families are always invalid.
func ValidateAddress(address string, kind Chain) bool {
	switch kind {
	case ChainEVM:
		return isEVMAddress(address)
	case ChainSolana:
		return isSolanaAddress(address)
	}
	return false
}

// isEVMAddress checks for "0x" followed by exactly 40 hex characters.
func isEVMAddress(address string) bool {
	if len(address) != 42 {
		return false
	}
	if !strings.HasPrefix(address, "0x") {
		return false
	}
	return isHex(address[2:])
}

// isSolanaAddress checks for a base58 string between 32 and 44 characters.
func isSolanaAddress(address string) bool {
	if len(address) < 32 || len(address) > 44 {
		return false
	}
	_, err := base58.Decode(address)
	return err == nil
}

// ValidatePrivateKey checks the private-key format for the given chain
// family: evm keys are 64 hex characters once any 0x prefix is stripped,
// solana keys are base58 with a minimum length heuristic.
func ValidatePrivateKey(key string, kind Chain) bool {
	switch kind {
	case ChainEVM:
		stripped := strings.TrimPrefix(key, "0x")
		return len(stripped) == 64 && isHex(stripped)
	case ChainSolana:
		if len(key) < 43 {
			return false
		}
		_, err := base58.Decode(key)
		return err == nil
	case ChainCosmos, ChainFuel, ChainRadix:
		// No format rule beyond presence for these families.
		return key != ""
	}
	return false
}

// ValidateUserID checks for a Discord-style snowflake identifier:
// 17 to 20 decimal digits.
func ValidateUserID(id string) bool {
	if len(id) < 17 || len(id) > 20 {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// sanitizeDenylist is the fixed set of characters stripped from free-text
// fields before they are logged or displayed.
const sanitizeDenylist = `<>"'%;()&+`

// Sanitize strips display-hostile characters from free-text input. This is
// a display-safety filter, not a security boundary: cipher and registry
// inputs are never routed through it.
func Sanitize(input string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(sanitizeDenylist, r) {
			return -1
		}
		return r
	}, input)
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
