// Package identity persists the last-used display name so returning users
// skip the login screen. It is a single expiring key-value entry, nothing
// more; the server still authenticates the name on every connection.
package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("identity")

var entryKey = []byte("last")

type entry struct {
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Cache is the bbolt-backed store for the single identity entry.
type Cache struct {
	db  *bolt.DB
	ttl time.Duration

	now func() time.Time
}

// Open creates or opens the cache file. ttl governs how long a saved name
// stays usable.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open identity cache: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init identity cache: %w", err)
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Load returns the saved name if present and unexpired. An expired entry is
// deleted and reported as a miss.
func (c *Cache) Load() (string, bool, error) {
	var e entry
	found := false

	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketName).Get(entryKey)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("decode identity entry: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	if c.now().After(e.ExpiresAt) {
		if err := c.Clear(); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return e.Name, true, nil
}

// Save stores the name with a fresh expiry.
func (c *Cache) Save(name string) error {
	data, err := json.Marshal(entry{Name: name, ExpiresAt: c.now().Add(c.ttl)})
	if err != nil {
		return fmt.Errorf("encode identity entry: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(entryKey, data)
	})
}

// Clear removes the entry; used on logout.
func (c *Cache) Clear() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(entryKey)
	})
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
