package tx

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"

	"github.com/nulsworld/libnuls-go/address"
)

// CoinPlain is the JSON-friendly form of a coin. Outputs carry Address and
// AddressHash; inputs carry FromHash and FromIndex.
type CoinPlain struct {
	Address     string  `json:"address,omitempty" mapstructure:"address"`
	AddressHash string  `json:"addressHash,omitempty" mapstructure:"addressHash"`
	FromHash    string  `json:"fromHash,omitempty" mapstructure:"fromHash"`
	FromIndex   *int    `json:"fromIndex,omitempty" mapstructure:"fromIndex"`
	Value       float64 `json:"value" mapstructure:"value"`
	LockTime    int64   `json:"lockTime" mapstructure:"lockTime"`
}

// TxPlain is the JSON-friendly form of a transaction, keyed the way the
// API server reports transactions.
type TxPlain struct {
	Hash        string         `json:"hash,omitempty" mapstructure:"hash"`
	Type        Type           `json:"type" mapstructure:"type"`
	Time        int64          `json:"time" mapstructure:"time"`
	BlockHeight int64          `json:"blockHeight" mapstructure:"blockHeight"`
	Fee         int64          `json:"fee" mapstructure:"fee"`
	Remark      string         `json:"remark" mapstructure:"remark"`
	RemarkEnc   string         `json:"remarkEncoding,omitempty" mapstructure:"remarkEncoding"`
	ScriptSig   string         `json:"scriptSig,omitempty" mapstructure:"scriptSig"`
	Size        int            `json:"size" mapstructure:"size"`
	Info        map[string]any `json:"info" mapstructure:"info"`
	Inputs      []CoinPlain    `json:"inputs" mapstructure:"inputs"`
	Outputs     []CoinPlain    `json:"outputs" mapstructure:"outputs"`
}

// remarkBase64 marks a remark that was not valid UTF-8.
const remarkBase64 = "base64"

// ToPlain returns the plain form of the coin.
func (c *Coin) ToPlain() CoinPlain {
	p := CoinPlain{Value: float64(c.Value), LockTime: c.LockTime}
	switch o := c.Owner.(type) {
	case Owned:
		p.Address = o.Address.String()
		p.AddressHash = o.Address.Hex()
	case Spending:
		idx := int(o.Index)
		p.FromHash = o.Hash.String()
		p.FromIndex = &idx
	}
	return p
}

// CoinFromPlain builds a coin from its plain form. The value is rounded to
// the nearest unit.
func CoinFromPlain(p CoinPlain) (*Coin, error) {
	value, err := roundAmount(p.Value)
	if err != nil {
		return nil, err
	}
	c := &Coin{Value: value, LockTime: p.LockTime}

	switch {
	case p.FromHash != "":
		h, err := HashFromHex(p.FromHash)
		if err != nil {
			return nil, err
		}
		idx := 0
		if p.FromIndex != nil {
			idx = *p.FromIndex
		}
		if idx < 0 || idx > math.MaxUint8 {
			return nil, fmt.Errorf("%w: from index %d", ErrValidation, idx)
		}
		c.Owner = Spending{Hash: h, Index: uint8(idx)}
	case p.Address != "":
		addr, err := address.Decode(p.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		c.Owner = Owned{Address: addr}
	case p.AddressHash != "":
		raw, err := hex.DecodeString(p.AddressHash)
		if err != nil {
			return nil, fmt.Errorf("%w: address hash: %w", ErrValidation, err)
		}
		addr, err := address.FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		c.Owner = Owned{Address: addr}
	default:
		return nil, fmt.Errorf("%w: coin has neither address nor from hash", ErrValidation)
	}
	return c, nil
}

// CoinFromMap decodes a generic map, such as decoded JSON, into a coin.
func CoinFromMap(m map[string]any) (*Coin, error) {
	var p CoinPlain
	if err := decodeMap(m, &p); err != nil {
		return nil, err
	}
	return CoinFromPlain(p)
}

// ToPlain returns the plain form of the transaction. The hash uses the
// on-wire header layout.
func (t *Transaction) ToPlain() (*TxPlain, error) {
	hash, err := t.Hash(DigestWire)
	if err != nil {
		return nil, err
	}
	p := &TxPlain{
		Hash:        hash.String(),
		Type:        t.Type,
		Time:        t.Time,
		BlockHeight: t.BlockHeight,
		Size:        t.Size,
		Info:        t.Payload.plain(),
		Inputs:      make([]CoinPlain, 0, len(t.Inputs)),
		Outputs:     make([]CoinPlain, 0, len(t.Outputs)),
	}
	if t.Type != TypeConsensusReward {
		p.Fee = t.FeeSigned()
	}
	if utf8.Valid(t.Remark) {
		p.Remark = string(t.Remark)
	} else {
		p.Remark = base64.StdEncoding.EncodeToString(t.Remark)
		p.RemarkEnc = remarkBase64
	}
	if len(t.ScriptSig) > 0 {
		p.ScriptSig = hex.EncodeToString(t.ScriptSig)
	}
	for _, c := range t.Inputs {
		p.Inputs = append(p.Inputs, c.ToPlain())
	}
	for _, c := range t.Outputs {
		p.Outputs = append(p.Outputs, c.ToPlain())
	}
	return p, nil
}

// FromPlain builds a transaction from its plain form. A zero time becomes
// the current time.
func FromPlain(p *TxPlain) (*Transaction, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: plain transaction", ErrNilParam)
	}
	payload, err := decodePayload(p.Type, p.Info)
	if err != nil {
		return nil, err
	}

	t := &Transaction{
		Type:        p.Type,
		Time:        p.Time,
		Payload:     payload,
		Size:        p.Size,
		BlockHeight: p.BlockHeight,
	}
	if t.Time == 0 {
		t.Time = time.Now().UnixMilli()
	}

	if p.RemarkEnc == remarkBase64 {
		if t.Remark, err = base64.StdEncoding.DecodeString(p.Remark); err != nil {
			return nil, fmt.Errorf("%w: remark: %w", ErrValidation, err)
		}
	} else if p.Remark != "" {
		t.Remark = []byte(p.Remark)
	}

	if p.ScriptSig != "" {
		if t.ScriptSig, err = hex.DecodeString(p.ScriptSig); err != nil {
			return nil, fmt.Errorf("%w: scriptSig: %w", ErrValidation, err)
		}
	}

	for i, cp := range p.Inputs {
		c, err := CoinFromPlain(cp)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		t.Inputs = append(t.Inputs, c)
	}
	for i, cp := range p.Outputs {
		c, err := CoinFromPlain(cp)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		t.Outputs = append(t.Outputs, c)
	}
	return t, nil
}

// FromMap decodes a generic map, such as decoded JSON, into a transaction.
func FromMap(m map[string]any) (*Transaction, error) {
	var p TxPlain
	if err := decodeMap(m, &p); err != nil {
		return nil, err
	}
	return FromPlain(&p)
}

func decodePayload(t Type, info map[string]any) (Payload, error) {
	payload, err := NewPayload(t)
	if err != nil {
		return nil, err
	}
	if len(info) == 0 {
		return payload, nil
	}
	if err := decodeMap(info, payload); err != nil {
		return nil, fmt.Errorf("%s info: %w", t, err)
	}
	return payload, nil
}

func decodeMap(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			amountHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result: out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// amountHook rounds floating point numbers, as produced by JSON decoding,
// into uint64 amount fields.
func amountHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Uint64 {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
		return roundAmount(reflect.ValueOf(data).Float())
	}
	return data, nil
}

func roundAmount(v float64) (uint64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: amount %v", ErrValidation, v)
	}
	r := math.Round(v)
	if r < 0 || r >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: amount %v out of range", ErrValidation, v)
	}
	return uint64(r), nil
}
