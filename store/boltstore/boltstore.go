// Package boltstore is a bbolt-backed alternative to the plain TOML files in
// store/, for benchmark harnesses that want every participant's key and
// share material addressable from one file instead of one-file-per-record,
// following a bucket-of-TOML-blobs shape: one bucket per record kind, each
// value a TOML-encoded blob.
package boltstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	bolt "go.etcd.io/bbolt"

	"github.com/nesteddkg/tbls/store"
)

// FileName is the default bbolt database file name under a run folder.
const FileName = "nesteddkg.db"

const filePerm = 0600
const dirPerm = 0740

var keyPairsBucket = []byte("keypairs")
var univariateSharesBucket = []byte("univariate_shares")
var bivariateSharesBucket = []byte("bivariate_shares")

var allBuckets = [][]byte{keyPairsBucket, univariateSharesBucket, bivariateSharesBucket}

// Store wraps a bbolt database holding every participant's persisted key
// pairs and precomputed shares for one run, keyed by a caller-chosen
// identifier (typically a participant index or "group:member" string).
type Store struct {
	db *bolt.DB
}

// Open creates (if needed) and opens the bbolt database at folder/FileName,
// pre-creating every bucket up front.
func Open(folder string) (*Store, error) {
	if err := os.MkdirAll(folder, dirPerm); err != nil {
		return nil, fmt.Errorf("boltstore: create folder %s: %w", folder, err)
	}
	db, err := bolt.Open(filepath.Join(folder, FileName), filePerm, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: init buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func put(db *bolt.DB, bucket []byte, key string, t store.Tomler) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(t.TOML()); err != nil {
		return fmt.Errorf("boltstore: encode %s: %w", key, err)
	}
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("boltstore: bucket %s missing", bucket)
		}
		return b.Put([]byte(key), buf.Bytes())
	})
}

// get decodes the record stored at key into t, and reports whether a record
// was found at all (a missing key is not an error).
func get(db *bolt.DB, bucket []byte, key string, t store.Tomler) (bool, error) {
	found := false
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("boltstore: bucket %s missing", bucket)
		}
		value := b.Get([]byte(key))
		if value == nil {
			return nil
		}
		found = true
		tomlValue := t.TOMLValue()
		if _, err := toml.NewDecoder(bytes.NewReader(value)).Decode(tomlValue); err != nil {
			return fmt.Errorf("boltstore: decode %s: %w", key, err)
		}
		return t.FromTOML(tomlValue)
	})
	return found, err
}

// PutKeyPair stores pair under key, overwriting any previous record.
func (s *Store) PutKeyPair(key string, pair store.Tomler) error {
	return put(s.db, keyPairsBucket, key, pair)
}

// GetKeyPair loads the key pair stored under key into out. ok is false if
// no record exists for key.
func (s *Store) GetKeyPair(key string, out store.Tomler) (ok bool, err error) {
	return get(s.db, keyPairsBucket, key, out)
}

// PutUnivariateShare stores share under key.
func (s *Store) PutUnivariateShare(key string, share store.Tomler) error {
	return put(s.db, univariateSharesBucket, key, share)
}

// GetUnivariateShare loads the univariate share stored under key into out.
func (s *Store) GetUnivariateShare(key string, out store.Tomler) (ok bool, err error) {
	return get(s.db, univariateSharesBucket, key, out)
}

// PutBivariateShare stores share under key.
func (s *Store) PutBivariateShare(key string, share store.Tomler) error {
	return put(s.db, bivariateSharesBucket, key, share)
}

// GetBivariateShare loads the bivariate share stored under key into out.
func (s *Store) GetBivariateShare(key string, out store.Tomler) (ok bool, err error) {
	return get(s.db, bivariateSharesBucket, key, out)
}
