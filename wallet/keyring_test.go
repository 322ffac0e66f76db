package wallet

import (
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/tx"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"

func TestKeyring_ImportHex(t *testing.T) {
	k := NewKeyring(address.DefaultParams)
	addr, err := k.ImportHex(testKeyHex)
	require.NoError(t, err)

	// Key 1 has the generator point as its public key.
	assert.Equal(t, "042301751e76e8199196d454941c45d1b3a323f1433bd6", addr.Hex())
	assert.Equal(t, []address.Address{addr}, k.Addresses())

	priv, err := k.Key(addr)
	require.NoError(t, err)
	assert.Equal(t,
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		hex.EncodeToString(priv.PubKey().Compressed()))
}

func TestKeyring_ImportHexInvalid(t *testing.T) {
	k := NewKeyring(address.DefaultParams)
	tests := []struct {
		name string
		in   string
	}{
		{"not hex", "zz"},
		{"short", "0102"},
		{"zero", strings.Repeat("00", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.ImportHex(tt.in)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
	assert.Zero(t, k.Len())
}

func TestKeyring_ImportIdempotent(t *testing.T) {
	k := NewKeyring(address.DefaultParams)
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	a1, err := k.Import(priv)
	require.NoError(t, err)
	a2, err := k.Import(priv)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, 1, k.Len())

	_, err = k.Import(nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestKeyring_GenerateOrder(t *testing.T) {
	k := NewKeyring(address.Params{ChainID: 261, AddressType: 1})
	var want []address.Address
	for i := 0; i < 3; i++ {
		addr, err := k.Generate()
		require.NoError(t, err)
		assert.Equal(t, uint16(261), addr.ChainID())
		want = append(want, addr)
	}
	assert.Equal(t, want, k.Addresses())
}

func TestKeyring_KeyNotFound(t *testing.T) {
	k := NewKeyring(address.DefaultParams)
	_, err := k.Key(address.Address{})
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKeyring_Sign(t *testing.T) {
	k := NewKeyring(address.DefaultParams)
	addr, err := k.Generate()
	require.NoError(t, err)

	transfer, err := tx.New(&tx.TransferPayload{}, "memo")
	require.NoError(t, err)
	out, err := tx.NewOutput(addr, 1, 0)
	require.NoError(t, err)
	transfer.Outputs = []*tx.Coin{out}

	require.NoError(t, k.Sign(transfer, addr, tx.DigestWire))
	require.NoError(t, transfer.VerifySignature(tx.DigestWire))

	signer, err := transfer.Signer(k.Params())
	require.NoError(t, err)
	assert.Equal(t, addr, signer)

	assert.ErrorIs(t, k.Sign(transfer, address.Address{}, tx.DigestWire), ErrKeyNotFound)
	assert.ErrorIs(t, k.Sign(nil, addr, tx.DigestWire), ErrNilParam)
}

func TestKeyring_Concurrent(t *testing.T) {
	k := NewKeyring(address.DefaultParams)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addr, err := k.Generate()
			assert.NoError(t, err)
			_, err = k.Key(addr)
			assert.NoError(t, err)
			_ = k.Addresses()
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, k.Len())
}
