package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// GenCache records, per component path, the source and option hashes of the
// last successful generation.
type GenCache struct {
	db *DB
}

// NewGenCache creates a cache over an open database.
func NewGenCache(db *DB) *GenCache {
	return &GenCache{db: db}
}

// Hash returns the hex digest used for cache keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether the component was last generated from the same
// source content with the same options.
func (c *GenCache) Fresh(componentPath, sourceHash, optionsHash string) (bool, error) {
	var gotSource, gotOptions string
	err := c.db.conn.QueryRow(`
		SELECT source_hash, options_hash FROM gen_cache WHERE component_path = ?
	`, componentPath).Scan(&gotSource, &gotOptions)
	if err != nil {
		return false, nil // missing row is a plain miss
	}
	return gotSource == sourceHash && gotOptions == optionsHash, nil
}

// Store upserts the cache entry for a component.
func (c *GenCache) Store(componentPath, sourceHash, optionsHash string) error {
	_, err := c.db.conn.Exec(`
		INSERT INTO gen_cache (component_path, source_hash, options_hash, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(component_path) DO UPDATE SET
			source_hash = excluded.source_hash,
			options_hash = excluded.options_hash,
			generated_at = excluded.generated_at
	`, componentPath, sourceHash, optionsHash, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Clear removes every cache entry.
func (c *GenCache) Clear() error {
	_, err := c.db.conn.Exec(`DELETE FROM gen_cache`)
	return err
}

// Count returns the number of cached components.
func (c *GenCache) Count() (int, error) {
	var n int
	err := c.db.conn.QueryRow(`SELECT COUNT(*) FROM gen_cache`).Scan(&n)
	return n, err
}
