package kv

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	schemaVersion  = 1
	metaBucketName = "meta"
	versionKey     = "version"
)

var ErrStoreClosed = errors.New("kv: store is closed")

// BoltDB is a bbolt file holding one bucket per Store.
type BoltDB struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

// OpenBolt opens (creating if needed) the database at path.
func OpenBolt(path string) (*BoltDB, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store dir: %w", err)
	}
	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltDB{db: db, path: trimmed}, nil
}

func (b *BoltDB) Path() string { return b.path }

func (b *BoltDB) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

// Store returns a Store backed by bucket, creating the bucket if needed.
func (b *BoltDB) Store(bucket string) (*BoltStore, error) {
	if bucket == "" || bucket == metaBucketName {
		return nil, fmt.Errorf("invalid bucket name %q", bucket)
	}
	err := b.update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return &BoltStore{db: b, bucket: []byte(bucket)}, nil
}

func (b *BoltDB) view(fn func(tx *bolt.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrStoreClosed
	}
	return b.db.View(fn)
}

func (b *BoltDB) update(fn func(tx *bolt.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrStoreClosed
	}
	return b.db.Update(fn)
}

// BoltStore is a Store over one bbolt bucket.
type BoltStore struct {
	db     *BoltDB
	bucket []byte
}

func (s *BoltStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.view(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *BoltStore) Set(_ context.Context, key string, value []byte) error {
	return s.db.update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), value)
	})
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.db.update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// ForEach visits every entry of the bucket in key order.
func (s *BoltStore) ForEach(fn func(key string, value []byte) error) error {
	return s.db.view(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

func ensureSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucketName))
		if err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}
		current := readSchemaVersion(meta)
		switch {
		case current == 0:
			return writeSchemaVersion(meta, schemaVersion)
		case current > schemaVersion:
			return fmt.Errorf("unsupported store schema version %d", current)
		case current < schemaVersion:
			return fmt.Errorf("missing migration path from %d to %d", current, schemaVersion)
		default:
			return nil
		}
	})
}

func readSchemaVersion(meta *bolt.Bucket) int {
	raw := meta.Get([]byte(versionKey))
	if len(raw) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(raw))
}

func writeSchemaVersion(meta *bolt.Bucket, version int) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(version))
	return meta.Put([]byte(versionKey), buf)
}
