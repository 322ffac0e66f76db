package address

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compressed public key of the private key 1 (the secp256k1 generator).
const generatorPubHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func generatorPub(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString(generatorPubHex)
	require.NoError(t, err)
	return b
}

func TestFromPublicKey_Layout(t *testing.T) {
	a := FromPublicKey(generatorPub(t), DefaultParams)

	// 8964 = 0x2304, little-endian; type 1; HASH160(pub).
	assert.Equal(t, "042301751e76e8199196d454941c45d1b3a323f1433bd6", a.Hex())
	assert.Equal(t, uint16(DefaultChainID), a.ChainID())
	assert.Equal(t, uint8(DefaultAddressType), a.Type())
	assert.Len(t, a.PubKeyHash(), HashLength)
}

func TestFromPublicKey_CustomParams(t *testing.T) {
	a := FromPublicKey(generatorPub(t), Params{ChainID: 261, AddressType: 2})
	assert.Equal(t, uint16(261), a.ChainID())
	assert.Equal(t, uint8(2), a.Type())
	assert.Equal(t, FromPublicKey(generatorPub(t), DefaultParams).PubKeyHash(), a.PubKeyHash())
}

func TestString_Deterministic(t *testing.T) {
	pub := generatorPub(t)
	first := FromPublicKey(pub, DefaultParams).String()
	second := FromPublicKey(pub, DefaultParams).String()
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestDecode_RoundTrip(t *testing.T) {
	a := FromPublicKey(generatorPub(t), DefaultParams)

	got, err := Decode(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestDecode_DoesNotVerifyChecksum(t *testing.T) {
	a := FromPublicKey(generatorPub(t), DefaultParams)
	raw := append(a.Bytes(), Checksum(a[:])^0xff)
	tampered := base58.Encode(raw)

	got, err := Decode(tampered)
	require.NoError(t, err, "Decode drops the checksum byte without checking it")
	assert.Equal(t, a, got)

	_, err = Validate(tampered)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestValidate_Good(t *testing.T) {
	a := FromPublicKey(generatorPub(t), DefaultParams)
	got, err := Validate(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrInvalidEncoding},
		{"not base58", "0OIl", ErrInvalidEncoding},
		{"too short", base58.Encode([]byte{1, 2, 3}), ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0), Checksum(nil))
	assert.Equal(t, byte(0x01^0x02^0x04), Checksum([]byte{0x01, 0x02, 0x04}))
}

func TestFromPubKey(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	a, err := FromPubKey(priv.PubKey(), DefaultParams)
	require.NoError(t, err)
	assert.Equal(t, FromPublicKey(priv.PubKey().Compressed(), DefaultParams), a)

	_, err = FromPubKey(nil, DefaultParams)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestTextMarshaling(t *testing.T) {
	a := FromPublicKey(generatorPub(t), DefaultParams)
	text, err := a.MarshalText()
	require.NoError(t, err)

	var b Address
	require.NoError(t, b.UnmarshalText(text))
	assert.Equal(t, a, b)
	assert.False(t, b.IsZero())
}
