// Package address derives and encodes ledger addresses.
//
// An address is 23 bytes: a 2-byte little-endian chain id, a 1-byte address
// type, and the 20-byte HASH160 of a public key. Its text form is the base58
// encoding of the address followed by a 1-byte XOR checksum.
package address

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/nulsworld/libnuls-go/codec"
)

const (
	// Length is the size of an address in bytes.
	Length = 23

	// HashLength is the size of the public key hash inside an address.
	HashLength = 20

	// DefaultChainID is the chain id of the main network.
	DefaultChainID = 8964

	// DefaultAddressType is the address type of a regular key-owned account.
	DefaultAddressType = 1
)

// Address is a 23-byte address hash.
type Address [Length]byte

// Params selects the chain id and address type embedded in derived addresses.
type Params struct {
	ChainID     uint16 `json:"chain_id"`
	AddressType uint8  `json:"address_type"`
}

// DefaultParams are the main network address parameters.
var DefaultParams = Params{
	ChainID:     DefaultChainID,
	AddressType: DefaultAddressType,
}

// FromPublicKey derives an address from serialized public key bytes:
// chainID(2, LE) || addressType(1) || RIPEMD160(SHA256(pub)).
func FromPublicKey(pub []byte, p Params) Address {
	var a Address
	binary.LittleEndian.PutUint16(a[0:2], p.ChainID)
	a[2] = p.AddressType
	copy(a[3:], codec.Hash160(pub))
	return a
}

// FromPubKey derives an address from the compressed form of pub.
func FromPubKey(pub *ec.PublicKey, p Params) (Address, error) {
	if pub == nil {
		return Address{}, fmt.Errorf("%w: public key", ErrNilParam)
	}
	return FromPublicKey(pub.Compressed(), p), nil
}

// FromBytes copies a 23-byte slice into an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Length {
		return a, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), Length)
	}
	copy(a[:], b)
	return a, nil
}

// Checksum returns the XOR of every byte of b.
func Checksum(b []byte) byte {
	var x byte
	for _, c := range b {
		x ^= c
	}
	return x
}

// String returns the base58 text form: base58(address || checksum).
func (a Address) String() string {
	buf := make([]byte, 0, Length+1)
	buf = append(buf, a[:]...)
	buf = append(buf, Checksum(a[:]))
	return base58.Encode(buf)
}

// Hex returns the hex encoding of the raw address bytes.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, Length)
	copy(b, a[:])
	return b
}

// ChainID returns the chain id embedded in the address.
func (a Address) ChainID() uint16 {
	return binary.LittleEndian.Uint16(a[0:2])
}

// Type returns the address type byte.
func (a Address) Type() uint8 {
	return a[2]
}

// PubKeyHash returns the 20-byte public key hash.
func (a Address) PubKeyHash() []byte {
	return bytes.Clone(a[3:])
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler using the base58 form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	dec, err := Decode(string(text))
	if err != nil {
		return err
	}
	*a = dec
	return nil
}

// Decode parses the base58 text form and drops the trailing checksum byte.
// The checksum itself is not verified; use Validate for that.
func Decode(text string) (Address, error) {
	if text == "" {
		return Address{}, fmt.Errorf("%w: empty address", ErrInvalidEncoding)
	}
	raw := base58.Decode(text)
	if len(raw) == 0 {
		return Address{}, fmt.Errorf("%w: %q is not base58", ErrInvalidEncoding, text)
	}
	return FromBytes(raw[:len(raw)-1])
}

// Validate decodes text and additionally checks the XOR checksum.
func Validate(text string) (Address, error) {
	a, err := Decode(text)
	if err != nil {
		return a, err
	}
	raw := base58.Decode(text)
	if want := Checksum(a[:]); raw[len(raw)-1] != want {
		return Address{}, fmt.Errorf("%w: got %#02x, want %#02x", ErrChecksum, raw[len(raw)-1], want)
	}
	return a, nil
}
