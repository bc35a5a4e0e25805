// Package cache is the ephemeral key-value layer: memoized query results and
// engagement counters, each with its own TTL. Losing it only resets counters
// and forces recomputation; nothing durable lives here.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"inkpress/app/config"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds retries of a counter update that lost a
// transaction conflict to a concurrent writer.
const maxConflictRetries = 50

// Cache is the subset of the store the services depend on.
type Cache interface {
	// Get decodes the value stored under key into dst. It reports false if
	// the key is missing or expired.
	Get(key string, dst interface{}) (bool, error)
	// Set stores v under key for ttl. A zero ttl never expires.
	Set(key string, v interface{}, ttl time.Duration) error
	Delete(key string) error
	// Incr adds delta to the integer under key, flooring the result at zero,
	// and rewrites it with a fresh ttl. Missing keys count from zero.
	Incr(key string, delta int, ttl time.Duration) (int, error)
}

// Store implements Cache on top of BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens the cache described by cfg.
func Open(cfg config.CacheConfig, logger badger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.
		WithLogger(logger).
		WithNumVersionsToKeep(1).
		WithSyncWrites(false)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a silent, throwaway cache.
func OpenInMemory() (*Store, error) {
	return Open(config.CacheConfig{InMemory: true}, nil)
}

// New wraps an already opened Badger database.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements Cache.
func (s *Store) Get(key string, dst interface{}) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return unmarshalValue(val, dst)
		})
	})
	if err != nil {
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return found, nil
}

// Set implements Cache.
func (s *Store) Set(key string, v interface{}, ttl time.Duration) error {
	data, err := marshalValue(v)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(newEntry(key, data, ttl))
	})
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Delete implements Cache. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}

// GetInt returns the integer under key, or 0 if it is missing or expired.
func (s *Store) GetInt(key string) (int, error) {
	var n int
	if _, err := s.Get(key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Incr implements Cache. The read and the write happen in one Badger
// transaction, so concurrent increments of the same key do not lose updates.
func (s *Store) Incr(key string, delta int, ttl time.Duration) (int, error) {
	var n int
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			n = 0
			item, err := txn.Get([]byte(key))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
			case err != nil:
				return err
			default:
				if err := item.Value(func(val []byte) error {
					return unmarshalValue(val, &n)
				}); err != nil {
					return err
				}
			}
			n += delta
			if n < 0 {
				n = 0
			}
			data, err := marshalValue(n)
			if err != nil {
				return err
			}
			return txn.SetEntry(newEntry(key, data, ttl))
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return 0, fmt.Errorf("cache incr %q: %w", key, err)
	}
	return n, nil
}

// Clear drops every key.
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Backup streams a full snapshot of the cache to w.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	return s.db.Backup(w, 0)
}

// Restore loads a snapshot produced by Backup.
func (s *Store) Restore(r io.Reader) error {
	return s.db.Load(r, 4)
}

// Remember returns the value cached under key, computing and storing it with
// fn on a miss. Cache read and write failures fall back to fn's result; only
// fn's own error is returned.
func Remember[T any](c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var v T
	if found, err := c.Get(key, &v); err == nil && found {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	_ = c.Set(key, v, ttl)
	return v, nil
}

func newEntry(key string, data []byte, ttl time.Duration) *badger.Entry {
	e := badger.NewEntry([]byte(key), data)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return e
}

func marshalValue(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache value: %v", err)
	}
	return data, nil
}

func unmarshalValue(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %v", err)
	}
	return nil
}

// Logger adapts the application loggers to badger.Logger. Info and debug
// chatter is kept only when verbose is set.
type Logger struct {
	Info    *log.Logger
	Error   *log.Logger
	Verbose bool
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error.Printf("badger: "+format, args...)
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Error.Printf("badger: "+format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.Verbose {
		l.Info.Printf("badger: "+format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.Verbose {
		l.Info.Printf("badger: "+format, args...)
	}
}
