package registry

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// deriveEVMAddress computes the standard EVM address for a hex private key:
// secp256k1 public key, Keccak-256, last 20 bytes, EIP-55 checksum casing.
func deriveEVMAddress(secretKey string) (string, error) {
	keyHex := strings.TrimPrefix(secretKey, "0x")

	privateKey, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return "", fmt.Errorf("failed to parse evm private key: %w", err)
	}

	return ethcrypto.PubkeyToAddress(privateKey.PublicKey).Hex(), nil
}

// deriveSolanaAddress computes the base58 public key for a base58-encoded
// 64-byte ed25519 private key. The trailing 32 bytes must be the public key
// belonging to the leading 32-byte seed; anything else is a malformed key.
func deriveSolanaAddress(secretKey string) (string, error) {
	decoded, err := base58.Decode(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to decode solana private key: %w", err)
	}
	if len(decoded) != 64 {
		return "", fmt.Errorf("solana private key must be 64 bytes, got %d", len(decoded))
	}

	derived := ed25519.NewKeyFromSeed(decoded[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], decoded[ed25519.SeedSize:]) {
		return "", fmt.Errorf("solana private key does not match its public key half")
	}

	return solana.PublicKeyFromBytes(decoded[ed25519.SeedSize:]).String(), nil
}
