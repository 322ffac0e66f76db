package journal

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulsworld/libnuls-go/codec"
	"github.com/nulsworld/libnuls-go/tx"
)

func tempBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "journal", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var baseTime = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

func testRecord(seed byte) *Record {
	created := baseTime.Add(time.Duration(seed) * time.Minute)
	return &Record{
		Hash:      tx.NewHash(codec.DoubleHash([]byte{seed})),
		Type:      tx.TypeTransfer,
		Raw:       []byte{seed, seed + 1, seed + 2},
		Status:    StatusSigned,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// stores runs fn against every Store implementation.
func stores(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	factories := []struct {
		name string
		new  func(t *testing.T) Store
	}{
		{"mem", func(*testing.T) Store { return NewMemStore() }},
		{"bolt", func(t *testing.T) Store { return tempBoltStore(t) }},
	}
	for _, f := range factories {
		t.Run(f.name, func(t *testing.T) {
			fn(t, f.new(t))
		})
	}
}

func hashes(rs []*Record) []tx.Hash {
	out := make([]tx.Hash, len(rs))
	for i, r := range rs {
		out[i] = r.Hash
	}
	return out
}

func TestStore_PutGet(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		r := testRecord(1)
		require.NoError(t, s.Put(r))

		got, err := s.Get(r.Hash)
		require.NoError(t, err)
		assert.Equal(t, r.Hash, got.Hash)
		assert.Equal(t, r.Raw, got.Raw)
		assert.Equal(t, r.Type, got.Type)
		assert.Equal(t, StatusSigned, got.Status)
		assert.True(t, r.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestStore_PutDuplicate(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		require.NoError(t, s.Put(testRecord(1)))
		assert.ErrorIs(t, s.Put(testRecord(1)), ErrDuplicateTx)
	})
}

func TestStore_InvalidInput(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		assert.ErrorIs(t, s.Put(nil), ErrNilParam)

		bad := testRecord(1)
		bad.Hash = bad.Hash[:32]
		assert.ErrorIs(t, s.Put(bad), ErrInvalidHash)

		_, err := s.Get(nil)
		assert.ErrorIs(t, err, ErrInvalidHash)
		assert.ErrorIs(t, s.MarkBroadcast(tx.Hash{1}, "x"), ErrInvalidHash)
		assert.ErrorIs(t, s.Delete(nil), ErrInvalidHash)
	})
}

func TestStore_NotFound(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		h := testRecord(9).Hash
		_, err := s.Get(h)
		assert.ErrorIs(t, err, ErrTxNotFound)
		assert.ErrorIs(t, s.MarkBroadcast(h, "id"), ErrTxNotFound)
		assert.ErrorIs(t, s.MarkFailed(h, "boom"), ErrTxNotFound)
		assert.ErrorIs(t, s.Delete(h), ErrTxNotFound)
	})
}

func TestStore_Lifecycle(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		r := testRecord(1)
		require.NoError(t, s.Put(r))

		require.NoError(t, s.MarkFailed(r.Hash, "connection refused"))
		got, err := s.Get(r.Hash)
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, got.Status)
		assert.Equal(t, "connection refused", got.LastError)
		assert.Equal(t, 1, got.Attempts)

		pending, err := s.ListPending()
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		require.NoError(t, s.MarkBroadcast(r.Hash, "remote-id"))
		got, err = s.Get(r.Hash)
		require.NoError(t, err)
		assert.Equal(t, StatusBroadcast, got.Status)
		assert.Equal(t, "remote-id", got.BroadcastID)
		assert.Empty(t, got.LastError)
		assert.Equal(t, 2, got.Attempts)

		pending, err = s.ListPending()
		require.NoError(t, err)
		assert.Empty(t, pending)

		assert.ErrorIs(t, s.MarkBroadcast(r.Hash, "again"), ErrAlreadyBroadcast)
		assert.ErrorIs(t, s.MarkFailed(r.Hash, "late"), ErrAlreadyBroadcast)
	})
}

func TestStore_ListOrder(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		for _, seed := range []byte{5, 2, 8, 1} {
			require.NoError(t, s.Put(testRecord(seed)))
		}
		require.NoError(t, s.MarkBroadcast(testRecord(2).Hash, "b"))

		all, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, []tx.Hash{
			testRecord(1).Hash, testRecord(2).Hash, testRecord(5).Hash, testRecord(8).Hash,
		}, hashes(all))

		pending, err := s.ListPending()
		require.NoError(t, err)
		assert.Equal(t, []tx.Hash{
			testRecord(1).Hash, testRecord(5).Hash, testRecord(8).Hash,
		}, hashes(pending))
	})
}

func TestStore_Delete(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		r := testRecord(3)
		require.NoError(t, s.Put(r))
		require.NoError(t, s.Delete(r.Hash))

		_, err := s.Get(r.Hash)
		assert.ErrorIs(t, err, ErrTxNotFound)

		pending, err := s.ListPending()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestStore_ConcurrentPut(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		const n = 20
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(seed byte) {
				defer wg.Done()
				assert.NoError(t, s.Put(testRecord(seed)))
			}(byte(i))
		}
		wg.Wait()

		all, err := s.List()
		require.NoError(t, err)
		assert.Len(t, all, n)
	})
}

func TestMemStore_ReturnsCopies(t *testing.T) {
	s := NewMemStore()
	r := testRecord(1)
	require.NoError(t, s.Put(r))
	r.Raw[0] = 0xEE

	got, err := s.Get(r.Hash)
	require.NoError(t, err)
	got.Status = StatusBroadcast

	again, err := s.Get(r.Hash)
	require.NoError(t, err)
	assert.Equal(t, byte(1), again.Raw[0])
	assert.Equal(t, StatusSigned, again.Status)
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.db")
	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(testRecord(1)))
	require.NoError(t, s.Put(testRecord(2)))
	require.NoError(t, s.MarkBroadcast(testRecord(1).Hash, "id"))
	require.NoError(t, s.Close())

	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	pending, err := s.ListPending()
	require.NoError(t, err)
	assert.Equal(t, []tx.Hash{testRecord(2).Hash}, hashes(pending))
}

func TestNewRecord(t *testing.T) {
	txn, err := tx.New(&tx.TransferPayload{}, "journal me")
	require.NoError(t, err)

	r, err := NewRecord(txn, tx.DigestWire)
	require.NoError(t, err)
	assert.Equal(t, StatusSigned, r.Status)
	assert.Equal(t, tx.TypeTransfer, r.Type)
	assert.Len(t, r.Hash, tx.HashLength)
	assert.False(t, r.CreatedAt.IsZero())

	want, err := txn.Hash(tx.DigestWire)
	require.NoError(t, err)
	assert.Equal(t, want, r.Hash)

	parsed, err := r.Transaction()
	require.NoError(t, err)
	assert.Equal(t, txn.Time, parsed.Time)
	assert.Equal(t, []byte("journal me"), parsed.Remark)

	_, err = NewRecord(nil, tx.DigestWire)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "signed", StatusSigned.String())
	assert.Equal(t, "broadcast", StatusBroadcast.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "status(9)", Status(9).String())
	assert.True(t, StatusFailed.Pending())
	assert.False(t, StatusBroadcast.Pending())
}
