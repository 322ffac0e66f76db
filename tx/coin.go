package tx

import (
	"fmt"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/codec"
)

// MaxCoinSize is the upper bound used by size estimation for one coin:
// owner(34) + index/prefix(2) + value(8) + lock time(6).
const MaxCoinSize = HashLength + 2 + 8 + 6

// Owner identifies who controls a coin. It is either Owned (an output
// paying an address) or Spending (an input referencing a prior output).
type Owner interface {
	ownerBytes() ([]byte, error)
}

// Owned marks a coin as an output paying Address.
type Owned struct {
	Address address.Address
}

func (o Owned) ownerBytes() ([]byte, error) {
	return o.Address.Bytes(), nil
}

// Spending marks a coin as an input spending output Index of the
// transaction identified by Hash.
type Spending struct {
	Hash  Hash
	Index uint8
}

func (s Spending) ownerBytes() ([]byte, error) {
	if len(s.Hash) < MinHashLength || len(s.Hash) > HashLength {
		return nil, fmt.Errorf("%w: spend hash is %d bytes", ErrValidation, len(s.Hash))
	}
	b := make([]byte, 0, len(s.Hash)+1)
	b = append(b, s.Hash...)
	return append(b, s.Index), nil
}

// Coin is a transaction input or output.
type Coin struct {
	Owner    Owner
	Value    uint64
	LockTime int64
}

// NewOutput returns a coin paying value to addr.
func NewOutput(addr address.Address, value, lockTime int64) (*Coin, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: negative value %d", ErrValidation, value)
	}
	return &Coin{Owner: Owned{Address: addr}, Value: uint64(value), LockTime: lockTime}, nil
}

// NewInput returns a coin spending output index of the transaction hash.
func NewInput(hash Hash, index uint8, value, lockTime int64) (*Coin, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: negative value %d", ErrValidation, value)
	}
	if len(hash) < MinHashLength || len(hash) > HashLength {
		return nil, fmt.Errorf("%w: spend hash is %d bytes", ErrValidation, len(hash))
	}
	return &Coin{
		Owner:    Spending{Hash: hash, Index: index},
		Value:    uint64(value),
		LockTime: lockTime,
	}, nil
}

// IsInput reports whether the coin spends a prior output.
func (c *Coin) IsInput() bool {
	_, ok := c.Owner.(Spending)
	return ok
}

// Address returns the paid address of an output coin.
func (c *Coin) Address() (address.Address, bool) {
	o, ok := c.Owner.(Owned)
	return o.Address, ok
}

// ParseCoin decodes a coin from b starting at cursor and returns the
// advanced cursor.
func ParseCoin(b []byte, cursor int) (*Coin, int, error) {
	r := codec.NewReaderAt(b, cursor)
	c := &Coin{}
	if err := c.Parse(r); err != nil {
		return nil, cursor, err
	}
	return c, r.Pos(), nil
}

// Parse decodes the coin at the reader's cursor.
func (c *Coin) Parse(r *codec.Reader) error {
	owner, err := r.ReadVarBytes()
	if err != nil {
		return fmt.Errorf("coin owner: %w", err)
	}

	switch n := len(owner); {
	case n == address.Length:
		addr, _ := address.FromBytes(owner)
		c.Owner = Owned{Address: addr}
	case n > address.Length:
		if n-HashLength > 1 {
			return fmt.Errorf("%w: long int for index (owner is %d bytes)", ErrFormat, n)
		}
		hash := owner[:n-1]
		if len(hash) < MinHashLength {
			return fmt.Errorf("%w: spend hash is %d bytes", ErrFormat, len(hash))
		}
		c.Owner = Spending{Hash: Hash(hash), Index: owner[n-1]}
	default:
		return fmt.Errorf("%w: coin owner is %d bytes", ErrFormat, n)
	}

	if c.Value, err = r.ReadUint64(); err != nil {
		return fmt.Errorf("coin value: %w", err)
	}
	if c.LockTime, err = r.ReadInt48(); err != nil {
		return fmt.Errorf("coin lock time: %w", err)
	}
	return nil
}

// AppendTo appends the wire encoding of the coin to b.
func (c *Coin) AppendTo(b []byte) ([]byte, error) {
	if c.Owner == nil {
		return b, fmt.Errorf("%w: coin has no owner", ErrValidation)
	}
	owner, err := c.Owner.ownerBytes()
	if err != nil {
		return b, err
	}
	b = codec.AppendVarBytes(b, owner)
	b = codec.AppendUint64(b, c.Value)
	return codec.AppendInt48(b, c.LockTime)
}

// Serialize returns the wire encoding of the coin.
func (c *Coin) Serialize() ([]byte, error) {
	return c.AppendTo(nil)
}
