package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PostgresStore persists wallet records in a single table, one row per
// user. Writes go through an UPSERT so a replacement is atomic per record;
// readers never observe a partially written row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool for the given URL and ensures the
// backing table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse database connection string")
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create connection pool")
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS wallet_records (
			user_id              TEXT PRIMARY KEY,
			id                   UUID NOT NULL,
			kind                 TEXT NOT NULL,
			secret_key_enc       TEXT NOT NULL,
			rpc_endpoint         TEXT NOT NULL,
			commerce_api_key_enc TEXT NOT NULL DEFAULT '',
			address              TEXT NOT NULL DEFAULT '',
			chain_id             BIGINT,
			is_active            BOOLEAN NOT NULL,
			created_at           TIMESTAMPTZ NOT NULL,
			last_used_at         TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to ensure wallet_records table")
	}
	return nil
}

// Put creates or fully replaces the record for record.UserID.
func (s *PostgresStore) Put(ctx context.Context, record WalletRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO wallet_records (
			user_id, id, kind, secret_key_enc, rpc_endpoint,
			commerce_api_key_enc, address, chain_id, is_active,
			created_at, last_used_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			id                   = EXCLUDED.id,
			kind                 = EXCLUDED.kind,
			secret_key_enc       = EXCLUDED.secret_key_enc,
			rpc_endpoint         = EXCLUDED.rpc_endpoint,
			commerce_api_key_enc = EXCLUDED.commerce_api_key_enc,
			address              = EXCLUDED.address,
			chain_id             = EXCLUDED.chain_id,
			is_active            = EXCLUDED.is_active,
			created_at           = EXCLUDED.created_at,
			last_used_at         = EXCLUDED.last_used_at`,
		record.UserID, record.ID, record.Kind, record.SecretKeyBlob,
		record.RPCEndpoint, record.CommerceAPIKeyBlob, record.Address,
		record.ChainID, record.IsActive, record.CreatedAt, record.LastUsedAt)
	if err != nil {
		return errors.Wrap(err, "failed to upsert wallet record")
	}
	return nil
}

// Get returns the record for userID, or nil when none exists.
func (s *PostgresStore) Get(ctx context.Context, userID string) (*WalletRecord, error) {
	var record WalletRecord
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, id, kind, secret_key_enc, rpc_endpoint,
		       commerce_api_key_enc, address, chain_id, is_active,
		       created_at, last_used_at
		FROM wallet_records
		WHERE user_id = $1`, userID).Scan(
		&record.UserID, &record.ID, &record.Kind, &record.SecretKeyBlob,
		&record.RPCEndpoint, &record.CommerceAPIKeyBlob, &record.Address,
		&record.ChainID, &record.IsActive, &record.CreatedAt, &record.LastUsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to fetch wallet record")
	}
	return &record, nil
}

// Stats counts all records, including retired ones.
func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM wallet_records`).Scan(&stats.Total, &stats.Active)
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to count wallet records")
	}
	return stats, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
