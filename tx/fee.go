package tx

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/nulsworld/libnuls-go/codec"
)

// Fee rates, in the smallest unit per started kilobyte.
const (
	CheapUnitFee uint64 = 100000
	UnitFee      uint64 = 1000000
	KB                  = 1024
)

// UnitFeeFor returns the per-kilobyte rate for t. Transfers and contract
// calls use the cheap rate.
func UnitFeeFor(t Type) uint64 {
	switch t {
	case TypeTransfer, TypeContractCall:
		return CheapUnitFee
	default:
		return UnitFee
	}
}

// FeeForSize returns the fee for a transaction of t occupying size bytes:
// one unit per started kilobyte.
func FeeForSize(t Type, size int) uint64 {
	if size <= 0 {
		return 0
	}
	units := uint64(size / KB)
	if size%KB > 0 {
		units++
	}
	return UnitFeeFor(t) * units
}

// EstimatedSize is an upper bound on the serialized size, used for fee
// calculation before inputs are final and before signing. An unsigned
// transaction is sized with a MaxScriptSigSize signature.
func (t *Transaction) EstimatedSize() int {
	payload := len(placeholder)
	if t.Payload != nil {
		payload = t.Payload.maxSize()
	}
	sig := len(t.ScriptSig)
	if sig == 0 {
		sig = MaxScriptSigSize
	}
	return 2 + 6 +
		codec.VarIntSize(uint64(len(t.Remark))) + len(t.Remark) +
		payload +
		5 + len(t.Inputs)*MaxCoinSize +
		5 + len(t.Outputs)*MaxCoinSize +
		5 + sig
}

// CalculateFee returns the fee required for the transaction at its
// estimated size.
func (t *Transaction) CalculateFee() uint64 {
	return FeeForSize(t.Type, t.EstimatedSize())
}

// InputTotal returns the sum of input values.
func (t *Transaction) InputTotal() (uint64, error) {
	return sumCoins(t.Inputs)
}

// OutputTotal returns the sum of output values.
func (t *Transaction) OutputTotal() (uint64, error) {
	return sumCoins(t.Outputs)
}

func sumCoins(coins []*Coin) (uint64, error) {
	var total uint64
	for _, c := range coins {
		if c == nil {
			continue
		}
		var carry uint64
		total, carry = bits.Add64(total, c.Value, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: coin values overflow", ErrEncoding)
		}
	}
	return total, nil
}

// Fee returns the fee actually paid: inputs minus outputs. It fails with
// ErrValidation when the outputs exceed the inputs.
func (t *Transaction) Fee() (uint64, error) {
	in, err := t.InputTotal()
	if err != nil {
		return 0, err
	}
	out, err := t.OutputTotal()
	if err != nil {
		return 0, err
	}
	if out > in {
		return 0, fmt.Errorf("%w: outputs %d exceed inputs %d", ErrValidation, out, in)
	}
	return in - out, nil
}

// FeeSigned returns inputs minus outputs as a signed value. A consensus
// reward, which has no inputs, yields a negative amount. Totals and the
// difference saturate instead of wrapping.
func (t *Transaction) FeeSigned() int64 {
	in, out := saturatingSum(t.Inputs), saturatingSum(t.Outputs)
	if in >= out {
		if d := in - out; d <= math.MaxInt64 {
			return int64(d)
		}
		return math.MaxInt64
	}
	if d := out - in; d <= math.MaxInt64 {
		return -int64(d)
	}
	return math.MinInt64
}

func saturatingSum(coins []*Coin) uint64 {
	total, err := sumCoins(coins)
	if err != nil {
		return math.MaxUint64
	}
	return total
}
