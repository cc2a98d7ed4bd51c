// Package store provides persistence for wallet records. Secret fields are
// stored only in their encrypted blob form; plaintext never reaches a store.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WalletRecord is the persisted shape of a registered wallet. SecretKeyBlob
// and CommerceAPIKeyBlob hold iv:tag:ciphertext blobs, never plaintext.
type WalletRecord struct {
	ID                 uuid.UUID
	UserID             string
	Kind               string
	SecretKeyBlob      string
	RPCEndpoint        string
	CommerceAPIKeyBlob string
	Address            string
	ChainID            *int64
	IsActive           bool
	CreatedAt          time.Time
	LastUsedAt         time.Time
}

// Stats summarizes the record population.
type Stats struct {
	Total  int
	Active int
}

// Store is the record backend owned by the wallet registry. One record per
// user; Put replaces wholesale. Implementations must write atomically per
// record but are not required to serialize across records - the registry
// linearizes per-user access itself.
type Store interface {
	// Put creates or fully replaces the record for record.UserID.
	Put(ctx context.Context, record WalletRecord) error
	// Get returns the record for userID, or nil when none exists.
	Get(ctx context.Context, userID string) (*WalletRecord, error)
	// Stats counts all records, including retired ones.
	Stats(ctx context.Context) (Stats, error)
}
