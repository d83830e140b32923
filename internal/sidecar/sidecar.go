// Package sidecar implements a small durable metadata store for facts
// that must survive a process restart but do not belong in the primary
// in-memory dictionary: the hash seed, the replication run ID, and the
// last-successful-save timestamp are the motivating examples. It is
// explicitly not a general transactional store — the module's Non-goals
// exclude transactional isolation across keys — this package only ever
// holds a handful of small, independently-updated values, each written in
// its own bbolt transaction.
package sidecar

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
)

var metaBucket = []byte("meta")

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("sidecar: key not found")

// Store wraps a single-file bbolt database holding process metadata.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the sidecar database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("sidecar: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

// Put stores value under key, overwriting any existing value.
func (s *Store) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(metaBucket).Put([]byte(key), value)
	})
}

// Get retrieves the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(metaBucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutUint64 stores an 8-byte little-endian encoded uint64 (used for the
// hash seed and monotonic counters).
func (s *Store) PutUint64(key string, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return s.Put(key, buf[:])
}

// GetUint64 retrieves a value stored by PutUint64.
func (s *Store) GetUint64(key string) (uint64, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("sidecar: value for %q is not 8 bytes", key)
	}
	return binary.LittleEndian.Uint64(v), nil
}

// PutString stores a UTF-8 string value.
func (s *Store) PutString(key, v string) error {
	return s.Put(key, []byte(v))
}

// GetString retrieves a value stored by PutString.
func (s *Store) GetString(key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
