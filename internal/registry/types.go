package registry

import (
	"errors"

	"github.com/chainvault/chainvault-api/internal/vault"
)

// WalletProvider is the boundary value for a user's wallet credentials.
// Instances passed into and out of the registry carry SecretKey and
// CommerceAPIKey in plaintext; inside the registry they exist only in
// encrypted blob form. The registry encrypts on every write and decrypts on
// every read, exactly once, so the two representations cannot be confused.
type WalletProvider struct {
	Kind           vault.Chain
	SecretKey      string
	RPCEndpoint    string
	CommerceAPIKey string
	Address        string
	ChainID        *int64
}

// UpdateParams carries a partial update. Nil fields are left untouched;
// secret-bearing fields are re-encrypted before they are merged.
type UpdateParams struct {
	SecretKey      *string
	RPCEndpoint    *string
	CommerceAPIKey *string
	Address        *string
	ChainID        *int64
}

// RegistryStats counts wallet records, retired ones included.
type RegistryStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

var (
	// ErrInvalidProvider is returned when a provider is structurally
	// unusable: unknown chain family or missing secret key / RPC endpoint.
	ErrInvalidProvider = errors.New("invalid wallet provider")
	// ErrDerivationFailed is returned when the public address could not be
	// derived from the supplied private key.
	ErrDerivationFailed = errors.New("address derivation failed")
	// ErrNoActiveRecord is returned by Update when the user has no active
	// wallet record.
	ErrNoActiveRecord = errors.New("no active wallet record")
)
