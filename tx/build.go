package tx

import (
	"fmt"
	"time"

	"github.com/nulsworld/libnuls-go/address"
)

// TransferParams describes a transfer to build from a pool of unspent outputs.
type TransferParams struct {
	// From receives the change.
	From address.Address
	// To receives Amount. It may be zero when Amount is 0.
	To     address.Address
	Amount uint64
	Remark string
	// Unspent is consumed as inputs are selected.
	Unspent *[]*UnspentOutput
	// Time in milliseconds; 0 means now.
	Time int64
}

// BuildTransfer assembles an unsigned transfer. Inputs are selected until
// they cover Amount plus the fee for the transaction at its current size;
// whatever remains goes back to From as change.
//
// A transfer with Amount 0 pays only the fee and returns the rest to From,
// which is how remark-only transactions are built.
func BuildTransfer(p *TransferParams) (*Transaction, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: transfer params", ErrNilParam)
	}
	if p.From.IsZero() {
		return nil, fmt.Errorf("%w: missing sender address", ErrInvalidParams)
	}
	if p.Amount > 0 && p.To.IsZero() {
		return nil, fmt.Errorf("%w: missing recipient address", ErrInvalidParams)
	}

	t := &Transaction{
		Type:    TypeTransfer,
		Time:    p.Time,
		Payload: &TransferPayload{},
	}
	if p.Remark != "" {
		t.Remark = []byte(p.Remark)
	}
	if t.Time == 0 {
		t.Time = time.Now().UnixMilli()
	}

	if p.Amount > 0 {
		t.Outputs = append(t.Outputs, &Coin{Owner: Owned{Address: p.To}, Value: p.Amount})
	}
	change := &Coin{Owner: Owned{Address: p.From}}
	t.Outputs = append(t.Outputs, change)

	var total, need uint64
	for {
		fee := t.CalculateFee()
		need = p.Amount + fee
		if need < p.Amount {
			return nil, fmt.Errorf("%w: amount %d overflows with fee", ErrValidation, p.Amount)
		}
		if total >= need {
			break
		}
		sel := SelectOutputs(need-total, p.Unspent)
		if len(sel.Inputs) == 0 {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, total, need)
		}
		t.Inputs = append(t.Inputs, sel.Inputs...)
		total += sel.Total
		log.Tracef("Selected %d inputs worth %d (total %d, need %d)",
			len(sel.Inputs), sel.Total, total, need)
	}

	change.Value = total - need
	if change.Value == 0 && len(t.Outputs) > 1 {
		t.Outputs = t.Outputs[:len(t.Outputs)-1]
	}

	log.Debugf("Built transfer: %d inputs, %d outputs, amount %d, fee %d",
		len(t.Inputs), len(t.Outputs), p.Amount, total-p.Amount-change.Value)
	return t, nil
}
