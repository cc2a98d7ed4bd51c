// Package registry owns the mapping from user identity to wallet record.
// Secret fields are encrypted before they reach the store and decrypted on
// the way back out; the store never sees plaintext and callers never see
// blobs.
package registry

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainvault/chainvault-api/internal/events"
	"github.com/chainvault/chainvault-api/internal/logger"
	"github.com/chainvault/chainvault-api/internal/store"
	"github.com/chainvault/chainvault-api/internal/vault"
)

// lockShards bounds per-identity lock memory while keeping contention
// between distinct users unlikely.
const lockShards = 64

// SetupHook runs dependent setup (tool initialization) after a wallet is
// stored. Its failure never rolls back the stored record.
type SetupHook interface {
	InitializeTools(ctx context.Context, userID string, provider WalletProvider) error
}

// Registry handles business logic for wallet record operations.
type Registry struct {
	store   store.Store
	cipher  *vault.Cipher
	emitter events.Emitter
	hook    SetupHook
	logger  *zap.Logger
	now     func() time.Time

	locks [lockShards]sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithSetupHook installs the best-effort post-registration hook.
func WithSetupHook(hook SetupHook) Option {
	return func(r *Registry) {
		r.hook = hook
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a registry over the given store and cipher. Setup
// outcomes are published through emitter.
func NewRegistry(s store.Store, cipher *vault.Cipher, emitter events.Emitter, opts ...Option) *Registry {
	r := &Registry{
		store:   s,
		cipher:  cipher,
		emitter: emitter,
		logger:  logger.Log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// lockFor returns the shard mutex linearizing operations for userID.
func (r *Registry) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &r.locks[h.Sum32()%lockShards]
}

// ValidateProvider is the structural pre-condition gate callers run before
// Register: chain family, secret key and RPC endpoint present, plus
// family-specific key format rules. Register itself does not re-validate
// formats.
func (r *Registry) ValidateProvider(provider WalletProvider) bool {
	if !vault.KnownChain(provider.Kind) {
		return false
	}
	if provider.SecretKey == "" || provider.RPCEndpoint == "" {
		return false
	}
	return vault.ValidatePrivateKey(provider.SecretKey, provider.Kind)
}

// Register encrypts the provider's secret fields and creates (or fully
// replaces) the user's wallet record. For evm and solana providers with no
// address, the address is derived from the private key. The dependent setup
// phase runs after the record is stored; its failure is reported through
// the event emitter and never fails the registration.
func (r *Registry) Register(ctx context.Context, userID string, provider WalletProvider) error {
	if !vault.KnownChain(provider.Kind) || provider.SecretKey == "" || provider.RPCEndpoint == "" {
		return ErrInvalidProvider
	}

	if provider.Address == "" {
		var derived string
		var err error
		switch provider.Kind {
		case vault.ChainEVM:
			derived, err = deriveEVMAddress(provider.SecretKey)
		case vault.ChainSolana:
			derived, err = deriveSolanaAddress(provider.SecretKey)
		}
		if err != nil {
			r.logger.Error("Failed to derive wallet address",
				zap.String("user_id", userID),
				zap.String("kind", string(provider.Kind)),
				zap.Error(err))
			return fmt.Errorf("%w: %v", ErrDerivationFailed, err)
		}
		provider.Address = derived
	}

	secretBlob, err := r.cipher.Encrypt(provider.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret key: %w", err)
	}

	var commerceBlob string
	if provider.CommerceAPIKey != "" {
		commerceBlob, err = r.cipher.Encrypt(provider.CommerceAPIKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt commerce api key: %w", err)
		}
	}

	now := r.now().UTC()
	record := store.WalletRecord{
		ID:                 uuid.New(),
		UserID:             userID,
		Kind:               string(provider.Kind),
		SecretKeyBlob:      secretBlob,
		RPCEndpoint:        provider.RPCEndpoint,
		CommerceAPIKeyBlob: commerceBlob,
		Address:            provider.Address,
		ChainID:            copyChainID(provider.ChainID),
		IsActive:           true,
		CreatedAt:          now,
		LastUsedAt:         now,
	}

	mu := r.lockFor(userID)
	mu.Lock()
	err = r.store.Put(ctx, record)
	mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to store wallet record: %w", err)
	}

	r.logger.Info("Wallet registered",
		zap.String("user_id", userID),
		zap.String("kind", string(provider.Kind)),
		zap.String("address", provider.Address))

	r.runSetup(ctx, userID, provider)
	return nil
}

// runSetup executes the best-effort phase. The record is already stored;
// the user must not be forced to re-enter the secret because dependent
// setup failed.
func (r *Registry) runSetup(ctx context.Context, userID string, provider WalletProvider) {
	if r.hook == nil {
		return
	}

	result := events.SetupResult{
		UserID:     userID,
		Kind:       string(provider.Kind),
		Succeeded:  true,
		OccurredAt: r.now().UTC(),
	}
	if err := r.hook.InitializeTools(ctx, userID, provider); err != nil {
		result.Succeeded = false
		result.Detail = err.Error()
		r.logger.Warn("Wallet setup hook failed, record kept",
			zap.String("user_id", userID),
			zap.Error(err))
	}
	r.emitter.EmitSetupResult(ctx, result)
}

// Get returns the user's wallet with secret fields decrypted, refreshing
// the record's last-used timestamp. Returns nil with no error when the user
// has no active record. A decrypt failure propagates as a CryptoError;
// garbage secret material is never returned silently.
func (r *Registry) Get(ctx context.Context, userID string) (*WalletProvider, error) {
	mu := r.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	record, err := r.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wallet record: %w", err)
	}
	if record == nil || !record.IsActive {
		return nil, nil
	}

	secretKey, err := r.cipher.Decrypt(record.SecretKeyBlob)
	if err != nil {
		r.logger.Error("Failed to decrypt stored secret key",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, err
	}

	var commerceKey string
	if record.CommerceAPIKeyBlob != "" {
		commerceKey, err = r.cipher.Decrypt(record.CommerceAPIKeyBlob)
		if err != nil {
			r.logger.Error("Failed to decrypt stored commerce api key",
				zap.String("user_id", userID),
				zap.Error(err))
			return nil, err
		}
	}

	record.LastUsedAt = r.now().UTC()
	if err := r.store.Put(ctx, *record); err != nil {
		return nil, fmt.Errorf("failed to refresh wallet record: %w", err)
	}

	return &WalletProvider{
		Kind:           vault.Chain(record.Kind),
		SecretKey:      secretKey,
		RPCEndpoint:    record.RPCEndpoint,
		CommerceAPIKey: commerceKey,
		Address:        record.Address,
		ChainID:        copyChainID(record.ChainID),
	}, nil
}

// Has reports whether the user has an active wallet record. No secret
// material is touched.
func (r *Registry) Has(ctx context.Context, userID string) (bool, error) {
	record, err := r.store.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch wallet record: %w", err)
	}
	return record != nil && record.IsActive, nil
}

// Remove deactivates the user's wallet record, keeping it for history and
// stats. Returns true only when an active record was deactivated, so a
// second Remove reports false.
func (r *Registry) Remove(ctx context.Context, userID string) (bool, error) {
	mu := r.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	record, err := r.store.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch wallet record: %w", err)
	}
	if record == nil || !record.IsActive {
		return false, nil
	}

	record.IsActive = false
	if err := r.store.Put(ctx, *record); err != nil {
		return false, fmt.Errorf("failed to deactivate wallet record: %w", err)
	}

	r.logger.Info("Wallet removed", zap.String("user_id", userID))
	return true, nil
}

// Update merges the given partial fields into the user's active record.
// Secret-bearing fields are re-encrypted before merging. Fails with
// ErrNoActiveRecord when the user has no active record.
func (r *Registry) Update(ctx context.Context, userID string, params UpdateParams) error {
	mu := r.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	record, err := r.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch wallet record: %w", err)
	}
	if record == nil || !record.IsActive {
		return ErrNoActiveRecord
	}

	if params.SecretKey != nil {
		blob, err := r.cipher.Encrypt(*params.SecretKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt secret key: %w", err)
		}
		record.SecretKeyBlob = blob
	}
	if params.CommerceAPIKey != nil {
		blob, err := r.cipher.Encrypt(*params.CommerceAPIKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt commerce api key: %w", err)
		}
		record.CommerceAPIKeyBlob = blob
	}
	if params.RPCEndpoint != nil {
		record.RPCEndpoint = *params.RPCEndpoint
	}
	if params.Address != nil {
		record.Address = *params.Address
	}
	if params.ChainID != nil {
		record.ChainID = copyChainID(params.ChainID)
	}

	if err := r.store.Put(ctx, *record); err != nil {
		return fmt.Errorf("failed to update wallet record: %w", err)
	}

	r.logger.Info("Wallet updated", zap.String("user_id", userID))
	return nil
}

// Stats counts wallet records across all users, retired records included.
func (r *Registry) Stats(ctx context.Context) (RegistryStats, error) {
	stats, err := r.store.Stats(ctx)
	if err != nil {
		return RegistryStats{}, fmt.Errorf("failed to count wallet records: %w", err)
	}
	return RegistryStats{Total: stats.Total, Active: stats.Active}, nil
}

func copyChainID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
