// Package resultcache persists computed hydrostatic results in cache.db as
// msgpack blobs with TTL expiry. Cache keys carry the geometry version, so
// stale entries after a re-import are never served; they simply age out.
package resultcache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache is a TTL blob cache over the hydro_results table.
type Cache struct {
	db  *sql.DB
	log zerolog.Logger
}

// New creates a result cache on the given cache database.
func New(db *sql.DB, log zerolog.Logger) *Cache {
	return &Cache{
		db:  db,
		log: log.With().Str("repository", "resultcache").Logger(),
	}
}

// Get looks a key up and unmarshals the payload into dest. Expired entries
// are treated as misses; the cleanup job removes them later.
func (c *Cache) Get(key string, dest interface{}) (bool, error) {
	var (
		payload   []byte
		expiresAt int64
	)
	err := c.db.QueryRow(
		"SELECT payload, expires_at FROM hydro_results WHERE key = ?", key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if time.Now().Unix() >= expiresAt {
		return false, nil
	}
	if err := msgpack.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache payload for %s: %w", key, err)
	}
	return true, nil
}

// Put stores a value under a key with the given TTL, replacing any
// previous entry.
func (c *Cache) Put(key string, value interface{}, ttl time.Duration) error {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload for %s: %w", key, err)
	}
	now := time.Now()
	_, err = c.db.Exec(`
		INSERT INTO hydro_results (key, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, key, payload, now.Unix(), now.Add(ttl).Unix())
	if err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// DeleteExpired removes entries whose TTL has passed and reports how many
// went away.
func (c *Cache) DeleteExpired() (int64, error) {
	res, err := c.db.Exec("DELETE FROM hydro_results WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	return res.RowsAffected()
}

// Purge empties the cache entirely.
func (c *Cache) Purge() error {
	if _, err := c.db.Exec("DELETE FROM hydro_results"); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Len counts live entries; used by the status endpoint.
func (c *Cache) Len() (int64, error) {
	var n int64
	err := c.db.QueryRow(
		"SELECT COUNT(*) FROM hydro_results WHERE expires_at > ?", time.Now().Unix(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}
