package journal

import (
	"sync"
	"time"

	"github.com/nulsworld/libnuls-go/tx"
)

// MemStore is an in-memory Store, mainly for tests and dry runs.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory journal.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]*Record)}
}

func copyRecord(r *Record) *Record {
	c := *r
	c.Hash = append(tx.Hash(nil), r.Hash...)
	c.Raw = append([]byte(nil), r.Raw...)
	return &c
}

func (s *MemStore) Put(r *Record) error {
	if err := validateRecord(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(r.Hash)
	if _, ok := s.records[key]; ok {
		return ErrDuplicateTx
	}
	s.records[key] = copyRecord(r)
	return nil
}

func (s *MemStore) Get(hash tx.Hash) (*Record, error) {
	if err := validateHash(hash); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[string(hash)]
	if !ok {
		return nil, ErrTxNotFound
	}
	return copyRecord(r), nil
}

func (s *MemStore) update(hash tx.Hash, fn func(*Record) error) error {
	if err := validateHash(hash); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[string(hash)]
	if !ok {
		return ErrTxNotFound
	}
	c := copyRecord(r)
	if err := fn(c); err != nil {
		return err
	}
	s.records[string(hash)] = c
	return nil
}

func (s *MemStore) MarkBroadcast(hash tx.Hash, broadcastID string) error {
	return s.update(hash, func(r *Record) error {
		return markBroadcast(r, broadcastID, time.Now().UTC())
	})
}

func (s *MemStore) MarkFailed(hash tx.Hash, reason string) error {
	return s.update(hash, func(r *Record) error {
		return markFailed(r, reason, time.Now().UTC())
	})
}

func (s *MemStore) collect(keep func(*Record) bool) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for _, r := range s.records {
		if keep(r) {
			out = append(out, copyRecord(r))
		}
	}
	sortByCreated(out)
	return out
}

func (s *MemStore) ListPending() ([]*Record, error) {
	return s.collect(func(r *Record) bool { return r.Status.Pending() }), nil
}

func (s *MemStore) List() ([]*Record, error) {
	return s.collect(func(*Record) bool { return true }), nil
}

func (s *MemStore) Delete(hash tx.Hash) error {
	if err := validateHash(hash); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[string(hash)]; !ok {
		return ErrTxNotFound
	}
	delete(s.records, string(hash))
	return nil
}
