package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/pulse/internal/core/kv"
	"github.com/colonyops/pulse/internal/data/db"
)

// KVStore implements kv.KV using SQLite.
type KVStore struct {
	db *db.DB
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed KV store.
func NewKVStore(db *db.DB) *KVStore {
	return &KVStore{db: db}
}

type kvRow struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

// Get retrieves and deserializes a value by key.
// Returns an error wrapping sql.ErrNoRows if the key does not exist.
// Expired entries are lazily deleted and treated as missing.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	row, err := s.get(ctx, key)
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if isExpired(row) {
		_ = s.delete(ctx, key)
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}

	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}

	return nil
}

// Set stores a value with no expiry.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	return s.set(ctx, key, value, sql.NullInt64{})
}

// SetTTL stores a value that expires after the given duration.
func (s *KVStore) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixNano()
	return s.set(ctx, key, value, sql.NullInt64{Int64: expiresAt, Valid: true})
}

// Delete removes a key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.delete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists (and is not expired).
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	row, err := s.get(ctx, key)
	if IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}

	if isExpired(row) {
		_ = s.delete(ctx, key)
		return false, nil
	}

	return true, nil
}

// ListKeys returns all non-expired keys in sorted order.
func (s *KVStore) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT key FROM kv_store WHERE expires_at IS NULL OR expires_at > ? ORDER BY key`,
		time.Now().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("kv list keys scan: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	return keys, nil
}

// GetRaw retrieves a raw KV entry with metadata.
// Returns an error wrapping sql.ErrNoRows if the key does not exist.
func (s *KVStore) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	row, err := s.get(ctx, key)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, err)
	}

	if isExpired(row) {
		_ = s.delete(ctx, key)
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, sql.ErrNoRows)
	}

	entry := kv.Entry{
		Key:       row.Key,
		Value:     json.RawMessage(row.Value),
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}

	if row.ExpiresAt.Valid {
		t := time.Unix(0, row.ExpiresAt.Int64)
		entry.ExpiresAt = &t
	}

	return entry, nil
}

// Clear removes all keys.
func (s *KVStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM kv_store`); err != nil {
		return fmt.Errorf("kv clear: %w", err)
	}
	return nil
}

func (s *KVStore) get(ctx context.Context, key string) (kvRow, error) {
	var row kvRow
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT key, value, expires_at, created_at, updated_at FROM kv_store WHERE key = ?`,
		key,
	).Scan(&row.Key, &row.Value, &row.ExpiresAt, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

func (s *KVStore) set(ctx context.Context, key string, value any, expiresAt sql.NullInt64) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	now := time.Now().UnixNano()
	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO kv_store (key, value, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET
		   value = excluded.value,
		   expires_at = excluded.expires_at,
		   updated_at = excluded.updated_at`,
		key, data, expiresAt, now, now,
	)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, classifyWrite(err))
	}

	return nil
}

func (s *KVStore) delete(ctx context.Context, key string) error {
	_, err := s.db.Conn().ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	if err != nil {
		return classifyWrite(err)
	}
	return nil
}

// Expiry boundary: an entry whose expiry equals the current instant is
// already expired.
func isExpired(row kvRow) bool {
	return row.ExpiresAt.Valid && row.ExpiresAt.Int64 <= time.Now().UnixNano()
}
