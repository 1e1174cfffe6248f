package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "hashes"

// Bolt stores hashes in a bbolt file.
type Bolt struct {
	db   *bolt.DB
	once sync.Once
}

// NewBolt opens (or creates) the database at path.
func NewBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, errors.New("cache path is required")
	}

	cleaned := filepath.Clean(path)
	if dir := filepath.Dir(cleaned); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := bolt.Open(cleaned, 0o600, nil)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bolt.Tx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		bucket := tx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return ErrNotFound
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		value = string(data)
		return nil
	})
	return value, err
}

func (b *Bolt) Put(ctx context.Context, key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		bucket, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Close() error {
	var err error
	b.once.Do(func() {
		err = b.db.Close()
	})
	return err
}
