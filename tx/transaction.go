package tx

import (
	"fmt"
	"time"

	"github.com/nulsworld/libnuls-go/codec"
)

// minCoinSize is the smallest wire coin: prefix(1) + address(23) + value(8) + lock(6).
const minCoinSize = 1 + 23 + 8 + 6

// Transaction is a chain transaction.
type Transaction struct {
	Type      Type
	Time      int64 // milliseconds since the Unix epoch
	Remark    []byte
	Payload   Payload
	Inputs    []*Coin
	Outputs   []*Coin
	ScriptSig []byte

	// Size is the serialized length, set by Parse and Serialize.
	Size int
	// BlockHeight is informational and only carried through plain forms.
	BlockHeight int64
}

// New returns an unsigned transaction of the payload's type, timestamped now.
func New(payload Payload, remark string) (*Transaction, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload", ErrNilParam)
	}
	t := &Transaction{
		Type:    payload.Type(),
		Time:    time.Now().UnixMilli(),
		Payload: payload,
	}
	if remark != "" {
		t.Remark = []byte(remark)
	}
	return t, nil
}

// Parse decodes a complete transaction. Bytes left after the transaction
// are an error; use ParseAt to decode from a larger buffer.
func Parse(b []byte) (*Transaction, error) {
	t, n, err := ParseAt(b, 0)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrFormat, len(b)-n)
	}
	return t, nil
}

// ParseAt decodes a transaction starting at cursor and returns the cursor
// just past it.
func ParseAt(b []byte, cursor int) (*Transaction, int, error) {
	r := codec.NewReaderAt(b, cursor)
	t := &Transaction{}
	if err := t.parse(r); err != nil {
		return nil, cursor, err
	}
	t.Size = r.Pos() - cursor
	return t, r.Pos(), nil
}

func (t *Transaction) parse(r *codec.Reader) error {
	typ, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}
	t.Type = Type(typ)

	ts, err := r.ReadUint48()
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}
	t.Time = int64(ts)

	if t.Remark, err = r.ReadVarBytes(); err != nil {
		return fmt.Errorf("remark: %w", err)
	}

	if t.Payload, err = NewPayload(t.Type); err != nil {
		return err
	}
	if err := t.Payload.parse(r); err != nil {
		return fmt.Errorf("%s payload: %w", t.Type, err)
	}

	if t.Inputs, err = parseCoins(r, "input"); err != nil {
		return err
	}
	if t.Outputs, err = parseCoins(r, "output"); err != nil {
		return err
	}

	if t.ScriptSig, err = r.ReadVarBytes(); err != nil {
		return fmt.Errorf("scriptSig: %w", err)
	}
	if len(t.Remark) == 0 {
		t.Remark = nil
	}
	if len(t.ScriptSig) == 0 {
		t.ScriptSig = nil
	}
	return nil
}

func parseCoins(r *codec.Reader, what string) ([]*Coin, error) {
	n, err := r.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("%s count: %w", what, err)
	}
	if n > uint64(r.Remaining()/minCoinSize) {
		return nil, fmt.Errorf("%w: %d %ss in %d bytes", ErrFormat, n, what, r.Remaining())
	}
	var coins []*Coin
	if n > 0 {
		coins = make([]*Coin, 0, n)
	}
	for i := uint64(0); i < n; i++ {
		c := &Coin{}
		if err := c.Parse(r); err != nil {
			return nil, fmt.Errorf("%s %d: %w", what, i, err)
		}
		coins = append(coins, c)
	}
	return coins, nil
}

// Serialize returns the wire encoding of the transaction and records its
// length in Size. An unsigned transaction is written with an empty scriptSig.
func (t *Transaction) Serialize() ([]byte, error) {
	b, err := t.appendHeader(nil, DigestWire)
	if err != nil {
		return nil, err
	}
	if b, err = t.appendBody(b); err != nil {
		return nil, err
	}
	b = codec.AppendVarBytes(b, t.ScriptSig)
	t.Size = len(b)
	return b, nil
}

// Digest returns the double SHA-256 of the transaction without its
// scriptSig, with the header laid out according to mode.
func (t *Transaction) Digest(mode DigestMode) ([]byte, error) {
	b, err := t.appendHeader(nil, mode)
	if err != nil {
		return nil, err
	}
	if b, err = t.appendBody(b); err != nil {
		return nil, err
	}
	return codec.DoubleHash(b), nil
}

// Hash returns the transaction id as a digest reference.
func (t *Transaction) Hash(mode DigestMode) (Hash, error) {
	d, err := t.Digest(mode)
	if err != nil {
		return nil, err
	}
	return NewHash(d), nil
}

func (t *Transaction) appendHeader(b []byte, mode DigestMode) ([]byte, error) {
	if t.Time < 0 {
		return b, fmt.Errorf("%w: negative time %d", ErrEncoding, t.Time)
	}
	switch mode {
	case DigestWire:
		b = codec.AppendUint16(b, uint16(t.Type))
		return codec.AppendUint48(b, uint64(t.Time))
	case DigestCompact:
		if t.Type > 0xFF {
			return b, fmt.Errorf("%w: type %d does not fit the compact header", ErrEncoding, t.Type)
		}
		b = append(b, byte(t.Type), 0xFF)
		return codec.AppendUint64(b, uint64(t.Time)), nil
	default:
		return b, fmt.Errorf("%w: %s", ErrInvalidParams, mode)
	}
}

func (t *Transaction) appendBody(b []byte) ([]byte, error) {
	if t.Payload == nil {
		return b, fmt.Errorf("%w: transaction has no payload", ErrValidation)
	}
	if t.Payload.Type() != t.Type {
		return b, fmt.Errorf("%w: %s payload on a %s transaction", ErrValidation, t.Payload.Type(), t.Type)
	}

	b = codec.AppendVarBytes(b, t.Remark)

	var err error
	if b, err = t.Payload.appendTo(b); err != nil {
		return b, fmt.Errorf("%s payload: %w", t.Type, err)
	}

	b = codec.AppendVarInt(b, uint64(len(t.Inputs)))
	for i, c := range t.Inputs {
		if c == nil {
			return b, fmt.Errorf("%w: input %d", ErrNilParam, i)
		}
		if b, err = c.AppendTo(b); err != nil {
			return b, fmt.Errorf("input %d: %w", i, err)
		}
	}
	b = codec.AppendVarInt(b, uint64(len(t.Outputs)))
	for i, c := range t.Outputs {
		if c == nil {
			return b, fmt.Errorf("%w: output %d", ErrNilParam, i)
		}
		if b, err = c.AppendTo(b); err != nil {
			return b, fmt.Errorf("output %d: %w", i, err)
		}
	}
	return b, nil
}
