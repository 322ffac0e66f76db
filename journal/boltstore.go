package journal

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nulsworld/libnuls-go/tx"
)

var (
	bucketRecords = []byte("records")
	bucketPending = []byte("pending")
)

// BoltStore persists journal records in a bbolt database. A secondary
// bucket indexes the hashes of records that are still pending.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("journal: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRecords, bucketPending} {
			if _, err := btx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create buckets: %w", err)
	}

	log.Debugf("Opened journal at %s", dbPath)
	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// putRecord writes r and keeps the pending index in step with its status.
func putRecord(btx *bbolt.Tx, r *Record) error {
	data, err := encodeGob(r)
	if err != nil {
		return fmt.Errorf("journal: encode record: %w", err)
	}
	if err := btx.Bucket(bucketRecords).Put(r.Hash, data); err != nil {
		return fmt.Errorf("journal: put record: %w", err)
	}

	pending := btx.Bucket(bucketPending)
	if r.Status.Pending() {
		err = pending.Put(r.Hash, []byte{})
	} else {
		err = pending.Delete(r.Hash)
	}
	if err != nil {
		return fmt.Errorf("journal: update pending index: %w", err)
	}
	return nil
}

func getRecord(btx *bbolt.Tx, hash []byte) (*Record, error) {
	data := btx.Bucket(bucketRecords).Get(hash)
	if data == nil {
		return nil, ErrTxNotFound
	}
	var r Record
	if err := decodeGob(data, &r); err != nil {
		return nil, fmt.Errorf("journal: decode record: %w", err)
	}
	return &r, nil
}

// Put adds a new record. Returns ErrDuplicateTx if the hash exists.
func (s *BoltStore) Put(r *Record) error {
	if err := validateRecord(r); err != nil {
		return err
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		if btx.Bucket(bucketRecords).Get(r.Hash) != nil {
			return ErrDuplicateTx
		}
		return putRecord(btx, r)
	})
}

// Get retrieves a record by transaction hash.
func (s *BoltStore) Get(hash tx.Hash) (*Record, error) {
	if err := validateHash(hash); err != nil {
		return nil, err
	}

	var r *Record
	err := s.db.View(func(btx *bbolt.Tx) error {
		var err error
		r, err = getRecord(btx, hash)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *BoltStore) update(hash tx.Hash, fn func(*Record) error) error {
	if err := validateHash(hash); err != nil {
		return err
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		r, err := getRecord(btx, hash)
		if err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
		return putRecord(btx, r)
	})
}

// MarkBroadcast records the network's acceptance of the transaction.
func (s *BoltStore) MarkBroadcast(hash tx.Hash, broadcastID string) error {
	return s.update(hash, func(r *Record) error {
		return markBroadcast(r, broadcastID, time.Now().UTC())
	})
}

// MarkFailed records a rejected broadcast attempt.
func (s *BoltStore) MarkFailed(hash tx.Hash, reason string) error {
	return s.update(hash, func(r *Record) error {
		return markFailed(r, reason, time.Now().UTC())
	})
}

// ListPending returns records not yet broadcast, oldest first.
func (s *BoltStore) ListPending() ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketPending).ForEach(func(k, _ []byte) error {
			r, err := getRecord(btx, k)
			if err == ErrTxNotFound {
				return nil // stale index entry
			}
			if err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("journal: list pending: %w", err)
	}
	sortByCreated(out)
	return out, nil
}

// List returns all records, oldest first.
func (s *BoltStore) List() ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketRecords).ForEach(func(_, v []byte) error {
			var r Record
			if err := decodeGob(v, &r); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			out = append(out, &r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	sortByCreated(out)
	return out, nil
}

// Delete removes a record and its pending index entry.
func (s *BoltStore) Delete(hash tx.Hash) error {
	if err := validateHash(hash); err != nil {
		return err
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		records := btx.Bucket(bucketRecords)
		if records.Get(hash) == nil {
			return ErrTxNotFound
		}
		if err := records.Delete(hash); err != nil {
			return fmt.Errorf("journal: delete record: %w", err)
		}
		if err := btx.Bucket(bucketPending).Delete(hash); err != nil {
			return fmt.Errorf("journal: delete pending index: %w", err)
		}
		return nil
	})
}
