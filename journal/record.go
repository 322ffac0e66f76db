// Package journal keeps a durable record of signed transactions and whether
// the network has accepted them. Signed bytes are journaled before they are
// broadcast so that a crash or a network failure never loses a transaction
// whose inputs may already be spent.
package journal

import (
	"fmt"
	"sort"
	"time"

	"github.com/nulsworld/libnuls-go/tx"
)

// Status is the broadcast state of a journaled transaction.
type Status uint8

const (
	// StatusSigned marks a transaction that has not been sent yet.
	StatusSigned Status = iota
	// StatusBroadcast marks a transaction the network accepted.
	StatusBroadcast
	// StatusFailed marks a transaction whose last broadcast was rejected.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSigned:
		return "signed"
	case StatusBroadcast:
		return "broadcast"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Pending reports whether the record still needs to be broadcast.
func (s Status) Pending() bool { return s != StatusBroadcast }

// Record is one journaled transaction.
type Record struct {
	Hash        tx.Hash
	Type        tx.Type
	Raw         []byte
	Status      Status
	BroadcastID string
	LastError   string
	Attempts    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecord serializes a signed transaction into a fresh record.
func NewRecord(t *tx.Transaction, mode tx.DigestMode) (*Record, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	raw, err := t.Serialize()
	if err != nil {
		return nil, err
	}
	hash, err := t.Hash(mode)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Record{
		Hash:      hash,
		Type:      t.Type,
		Raw:       raw,
		Status:    StatusSigned,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Transaction parses the journaled bytes.
func (r *Record) Transaction() (*tx.Transaction, error) {
	return tx.Parse(r.Raw)
}

// Store persists journal records.
type Store interface {
	// Put adds a new record. Returns ErrDuplicateTx if the hash exists.
	Put(r *Record) error

	// Get retrieves a record by transaction hash.
	Get(hash tx.Hash) (*Record, error)

	// MarkBroadcast records the network's acceptance of the transaction.
	MarkBroadcast(hash tx.Hash, broadcastID string) error

	// MarkFailed records a rejected broadcast attempt.
	MarkFailed(hash tx.Hash, reason string) error

	// ListPending returns records not yet broadcast, oldest first.
	ListPending() ([]*Record, error)

	// List returns all records, oldest first.
	List() ([]*Record, error)

	// Delete removes a record.
	Delete(hash tx.Hash) error
}

func validateRecord(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	return validateHash(r.Hash)
}

func validateHash(h tx.Hash) error {
	if len(h) != tx.HashLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidHash, len(h))
	}
	return nil
}

// RecordBroadcast marks r as accepted by the network under id.
func (r *Record) RecordBroadcast(id string, now time.Time) {
	r.Status = StatusBroadcast
	r.BroadcastID = id
	r.LastError = ""
	r.Attempts++
	r.UpdatedAt = now
}

// RecordFailure marks r as rejected with reason. It stays pending.
func (r *Record) RecordFailure(reason string, now time.Time) {
	r.Status = StatusFailed
	r.LastError = reason
	r.Attempts++
	r.UpdatedAt = now
}

func markBroadcast(r *Record, id string, now time.Time) error {
	if r.Status == StatusBroadcast {
		return ErrAlreadyBroadcast
	}
	r.RecordBroadcast(id, now)
	return nil
}

func markFailed(r *Record, reason string, now time.Time) error {
	if r.Status == StatusBroadcast {
		return ErrAlreadyBroadcast
	}
	r.RecordFailure(reason, now)
	return nil
}

func sortByCreated(rs []*Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}
