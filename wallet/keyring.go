// Package wallet holds the signing keys used to authorize transactions.
//
// Keys live only in memory. Loading them from disk or deriving them from a
// seed is left to the application.
package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/tx"
)

// PrivateKeyLen is the size of a raw secp256k1 private key.
const PrivateKeyLen = 32

// Keyring maps addresses to their private keys. It is safe for concurrent use.
type Keyring struct {
	params address.Params

	mu    sync.RWMutex
	keys  map[address.Address]*ec.PrivateKey
	order []address.Address
}

// NewKeyring returns an empty keyring deriving addresses with p.
func NewKeyring(p address.Params) *Keyring {
	return &Keyring{
		params: p,
		keys:   make(map[address.Address]*ec.PrivateKey),
	}
}

// Params returns the address parameters of the keyring.
func (k *Keyring) Params() address.Params {
	return k.params
}

// Import adds priv and returns its address. Importing a key twice is a no-op.
func (k *Keyring) Import(priv *ec.PrivateKey) (address.Address, error) {
	if priv == nil {
		return address.Address{}, fmt.Errorf("%w: private key", ErrNilParam)
	}
	addr, err := address.FromPubKey(priv.PubKey(), k.params)
	if err != nil {
		return address.Address{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.keys[addr]; !ok {
		k.keys[addr] = priv
		k.order = append(k.order, addr)
	}
	return addr, nil
}

// ImportHex adds a hex-encoded 32-byte private key.
func (k *Keyring) ImportHex(s string) (address.Address, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return address.Address{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(raw) != PrivateKeyLen {
		return address.Address{}, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidKey, len(raw), PrivateKeyLen)
	}
	if isZero(raw) {
		return address.Address{}, fmt.Errorf("%w: zero key", ErrInvalidKey)
	}
	priv, _ := ec.PrivateKeyFromBytes(raw)
	return k.Import(priv)
}

// Generate creates a fresh random key and adds it.
func (k *Keyring) Generate() (address.Address, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return address.Address{}, fmt.Errorf("wallet: generate key: %w", err)
	}
	return k.Import(priv)
}

// Key returns the private key for addr.
func (k *Keyring) Key(addr address.Address) (*ec.PrivateKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	priv, ok := k.keys[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, addr)
	}
	return priv, nil
}

// Addresses returns the held addresses in import order.
func (k *Keyring) Addresses() []address.Address {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]address.Address, len(k.order))
	copy(out, k.order)
	return out
}

// Len returns the number of held keys.
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.order)
}

// Sign signs t with the key held for signer.
func (k *Keyring) Sign(t *tx.Transaction, signer address.Address, mode tx.DigestMode) error {
	if t == nil {
		return fmt.Errorf("%w: transaction", ErrNilParam)
	}
	priv, err := k.Key(signer)
	if err != nil {
		return err
	}
	return t.Sign(priv, mode)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
