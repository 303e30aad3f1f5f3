// ABOUTME: Persistent TTL cache backed by BadgerDB
// ABOUTME: Entries carry their own expiry in a JSON envelope alongside Badger's native TTL
package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/sherpa/logger"
)

type badgerEnvelope struct {
	ExpiresAt time.Time `json:"expires_at"`
	Value     []byte    `json:"value"`
}

type BadgerCache struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadgerCache opens a cache in dir, creating it if needed. An empty dir
// opens an in-memory cache.
func OpenBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	} else if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}
	return &BadgerCache{db: db, now: time.Now}, nil
}

// WithClock replaces the cache's time source for envelope expiry checks.
func (c *BadgerCache) WithClock(now func() time.Time) *BadgerCache {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *BadgerCache) Get(key string) ([]byte, bool) {
	var env badgerEnvelope
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &env)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logger.Warn("provider: badger cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	if expired(env.ExpiresAt, c.now()) {
		return nil, false
	}
	return env.Value, true
}

func (c *BadgerCache) Set(key string, value []byte, ttl time.Duration) {
	env := badgerEnvelope{Value: value}
	if ttl > 0 {
		env.ExpiresAt = c.now().Add(ttl)
	}
	data, err := json.Marshal(env)
	if err != nil {
		logger.Warn("provider: badger cache encode failed", "key", key, "error", err)
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		logger.Warn("provider: badger cache write failed", "key", key, "error", err)
	}
}

func (c *BadgerCache) Close() error {
	return c.db.Close()
}
