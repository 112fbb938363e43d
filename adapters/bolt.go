package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/internal/util"
	"go.etcd.io/bbolt"
)

const bucketKV = "kv"

// BoltStore is a [codecollab.ContentStore] backed by a single bbolt bucket
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (creating if needed) the database file at path and
// ensures the kv bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	logger := util.GetLogger("BoltStore.Open")

	if path == "" {
		return nil, errors.New("bolt store requires a path")
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketKV)); err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", bucketKV, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug().Str("path", path).Msg("Opened bolt store")
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var (
		out   []byte
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		// Seek rather than Get so empty values are told apart from missing keys
		k, v := tx.Bucket([]byte(bucketKV)).Cursor().Seek([]byte(key))
		if k != nil && string(k) == key {
			// Bytes are only valid for the life of the transaction
			out = append([]byte{}, v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

func (b *BoltStore) Set(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if val == nil {
		val = []byte{}
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketKV)).Put([]byte(key), val)
	})
}

func (b *BoltStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketKV)).Delete([]byte(key))
	})
}

func (b *BoltStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketKV)).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}

var _ codecollab.ContentStore = (*BoltStore)(nil)

// BoltProvider opens a [BoltStore] at opts.Path
type BoltProvider struct{}

func (BoltProvider) Open(opts codecollab.StoreOptions) (codecollab.ContentStore, error) {
	return OpenBoltStore(opts.Path)
}
