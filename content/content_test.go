package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/codec"
	"github.com/nulsworld/libnuls-go/network"
	"github.com/nulsworld/libnuls-go/storage"
	"github.com/nulsworld/libnuls-go/tx"
	"github.com/nulsworld/libnuls-go/wallet"
)

const testRef = "QmW2WQi7j6c7UgJTarActp7tDNikE4B2qXtFCfLPdsgaTQ"

func testOutputs(values ...uint64) *network.OutputSet {
	set := &network.OutputSet{}
	for i, v := range values {
		set.Outputs = append(set.Outputs, &tx.UnspentOutput{
			Hash:  tx.NewHash(codec.DoubleHash([]byte{byte(i)})),
			Index: uint8(i),
			Value: v,
		})
		set.TotalAvailable += v
	}
	return set
}

// newMock returns a service holding outputs and recording pushed documents.
func newMock(set *network.OutputSet, pushed *[][]byte) *network.MockService {
	return &network.MockService{
		FetchUnspentOutputsFn: func(_ context.Context, _ string) (*network.OutputSet, error) {
			return set, nil
		},
		PushContentFn: func(_ context.Context, content []byte) (string, error) {
			*pushed = append(*pushed, content)
			return testRef, nil
		},
	}
}

func newKeyring(t *testing.T) (*wallet.Keyring, address.Address) {
	t.Helper()
	keys := wallet.NewKeyring(address.DefaultParams)
	from, err := keys.Generate()
	require.NoError(t, err)
	return keys, from
}

// --- Remark ---

func TestRemark_RoundTrip(t *testing.T) {
	tests := []struct {
		text string
		want Remark
	}{
		{"IPFS;P;" + testRef, Remark{Storage: StorageIPFS, Kind: KindPost, Ref: testRef}},
		{"IPFS;A;abc", Remark{Storage: StorageIPFS, Kind: KindAggregate, Ref: "abc"}},
		{"SIA;X;a;b", Remark{Storage: "SIA", Kind: "X", Ref: "a;b"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseRemark(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
		})
	}
	assert.Equal(t, "IPFS;P;x", NewRemark(KindPost, "x").String())
}

func TestParseRemark_Invalid(t *testing.T) {
	for _, s := range []string{"", "hello", "IPFS;P", "IPFS;P;", ";P;x", "IPFS;;x"} {
		_, err := ParseRemark(s)
		assert.ErrorIs(t, err, ErrInvalidRemark, s)
	}
}

// --- Builder ---

func TestPrepareRemarkTx(t *testing.T) {
	_, from := newKeyring(t)
	var pushed [][]byte
	set := testOutputs(300000, 1000000)
	b := NewBuilder(newMock(set, &pushed))

	txn, err := b.PrepareRemarkTx(context.Background(), from, "hello")
	require.NoError(t, err)

	assert.Equal(t, tx.TypeTransfer, txn.Type)
	assert.Equal(t, []byte("hello"), txn.Remark)
	require.Len(t, txn.Inputs, 1)
	assert.Equal(t, uint64(1000000), txn.Inputs[0].Value)
	require.Len(t, txn.Outputs, 1)
	got, ok := txn.Outputs[0].Address()
	require.True(t, ok)
	assert.Equal(t, from, got)
	assert.Equal(t, uint64(1000000)-tx.CheapUnitFee, txn.Outputs[0].Value)

	fee, err := txn.Fee()
	require.NoError(t, err)
	assert.Equal(t, txn.CalculateFee(), fee)

	// The fetched set is left untouched.
	assert.Equal(t, uint64(300000), set.Outputs[0].Value)
	assert.Len(t, set.Outputs, 2)
}

func TestPrepareRemarkTx_Errors(t *testing.T) {
	_, from := newKeyring(t)
	ctx := context.Background()

	t.Run("no fetcher", func(t *testing.T) {
		_, err := (&Builder{}).PrepareRemarkTx(ctx, from, "x")
		assert.ErrorIs(t, err, ErrNilParam)
	})
	t.Run("fetch error", func(t *testing.T) {
		b := NewBuilder(&network.MockService{
			FetchUnspentOutputsFn: func(context.Context, string) (*network.OutputSet, error) {
				return nil, network.ErrConnectionFailed
			},
		})
		_, err := b.PrepareRemarkTx(ctx, from, "x")
		assert.ErrorIs(t, err, network.ErrConnectionFailed)
	})
	t.Run("insufficient funds", func(t *testing.T) {
		var pushed [][]byte
		b := NewBuilder(newMock(testOutputs(1000), &pushed))
		_, err := b.PrepareRemarkTx(ctx, from, "x")
		assert.ErrorIs(t, err, tx.ErrInsufficientFunds)
	})
}

func TestCreatePost(t *testing.T) {
	_, from := newKeyring(t)
	var pushed [][]byte
	b := NewBuilder(newMock(testOutputs(5000000), &pushed))

	txn, err := b.CreatePost(context.Background(), from, Post{Type: "note", Body: "hi", Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, "IPFS;P;"+testRef, string(txn.Remark))

	require.Len(t, pushed, 1)
	assert.JSONEq(t, `{"type":"note","content":{"body":"hi","title":"T"}}`, string(pushed[0]))
}

func TestCreatePost_WithRef(t *testing.T) {
	_, from := newKeyring(t)
	var pushed [][]byte
	b := NewBuilder(newMock(testOutputs(5000000), &pushed))

	_, err := b.CreatePost(context.Background(), from, Post{Type: "comment", Body: "+1", Ref: "abc"})
	require.NoError(t, err)
	require.Len(t, pushed, 1)
	assert.JSONEq(t, `{"type":"comment","content":{"body":"+1"},"ref":"abc"}`, string(pushed[0]))
}

func TestSubmitAggregate(t *testing.T) {
	_, from := newKeyring(t)
	var pushed [][]byte
	b := NewBuilder(newMock(testOutputs(5000000), &pushed))

	txn, err := b.SubmitAggregate(context.Background(), from, "profile", map[string]string{"name": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "IPFS;A;"+testRef, string(txn.Remark))

	require.Len(t, pushed, 1)
	assert.JSONEq(t, `{"key":"profile","content":{"name":"alice"}}`, string(pushed[0]))
}

func TestSubmitAggregate_Errors(t *testing.T) {
	_, from := newKeyring(t)
	ctx := context.Background()
	set := testOutputs(5000000)

	t.Run("unencodable content", func(t *testing.T) {
		var pushed [][]byte
		b := NewBuilder(newMock(set, &pushed))
		_, err := b.SubmitAggregate(ctx, from, "k", make(chan int))
		assert.Error(t, err)
		assert.Empty(t, pushed)
	})
	t.Run("push error", func(t *testing.T) {
		b := &Builder{
			Outputs: newMock(set, new([][]byte)),
			Content: &network.MockService{PushContentFn: func(context.Context, []byte) (string, error) {
				return "", network.ErrAuthFailed
			}},
		}
		_, err := b.SubmitAggregate(ctx, from, "k", 1)
		assert.ErrorIs(t, err, network.ErrAuthFailed)
	})
	t.Run("empty ref", func(t *testing.T) {
		b := &Builder{
			Outputs: newMock(set, new([][]byte)),
			Content: &network.MockService{PushContentFn: func(context.Context, []byte) (string, error) {
				return "", nil
			}},
		}
		_, err := b.SubmitAggregate(ctx, from, "k", 1)
		assert.ErrorIs(t, err, ErrEmptyRef)
	})
	t.Run("no pusher", func(t *testing.T) {
		b := &Builder{Outputs: newMock(set, new([][]byte))}
		_, err := b.CreatePost(ctx, from, Post{Body: "x"})
		assert.ErrorIs(t, err, ErrNilParam)
	})
}

func TestCreatePost_OfflineStore(t *testing.T) {
	_, from := newKeyring(t)
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	b := &Builder{Outputs: newMock(testOutputs(5000000), new([][]byte)), Content: store}
	txn, err := b.CreatePost(context.Background(), from, Post{Type: "note", Body: "offline"})
	require.NoError(t, err)

	remark, err := ParseRemark(string(txn.Remark))
	require.NoError(t, err)
	assert.Equal(t, KindPost, remark.Kind)

	doc, err := store.Fetch(remark.Ref)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"note","content":{"body":"offline"}}`, string(doc))
}

// --- FetchProfile ---

type aggregateFunc func(ctx context.Context, address string, keys ...string) (network.Aggregate, error)

func (f aggregateFunc) FetchAggregate(ctx context.Context, address string, keys ...string) (network.Aggregate, error) {
	return f(ctx, address, keys...)
}

func TestFetchProfile(t *testing.T) {
	ctx := context.Background()

	var gotKeys []string
	f := aggregateFunc(func(_ context.Context, _ string, keys ...string) (network.Aggregate, error) {
		gotKeys = keys
		return network.Aggregate{"profile": json.RawMessage(`{"name":"alice"}`)}, nil
	})
	profile, err := FetchProfile(ctx, f, "addr")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"alice"}`, string(profile))
	assert.Equal(t, []string{"profile"}, gotKeys)

	tests := []struct {
		name string
		agg  network.Aggregate
	}{
		{"missing", network.Aggregate{}},
		{"null", network.Aggregate{"profile": json.RawMessage("null")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := FetchProfile(ctx, aggregateFunc(func(context.Context, string, ...string) (network.Aggregate, error) {
				return tt.agg, nil
			}), "addr")
			require.NoError(t, err)
			assert.Nil(t, profile)
		})
	}

	boom := errors.New("boom")
	_, err = FetchProfile(ctx, aggregateFunc(func(context.Context, string, ...string) (network.Aggregate, error) {
		return nil, boom
	}), "addr")
	assert.ErrorIs(t, err, boom)
}
