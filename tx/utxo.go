package tx

import (
	"math"
	"sort"
)

// UnspentOutput is a spendable output as reported by the API server.
type UnspentOutput struct {
	Hash     Hash   `json:"hash"`
	Index    uint8  `json:"idx"`
	Value    uint64 `json:"value"`
	LockTime int64  `json:"lockTime"`
}

// Coin returns an input coin spending u.
func (u *UnspentOutput) Coin() *Coin {
	return &Coin{
		Owner:    Spending{Hash: u.Hash, Index: u.Index},
		Value:    u.Value,
		LockTime: u.LockTime,
	}
}

// Selection is the result of SelectOutputs.
type Selection struct {
	Inputs []*Coin
	Total  uint64
}

// Covers reports whether the selection reaches target.
func (s *Selection) Covers(target uint64) bool {
	return s.Total >= target
}

// SelectOutputs picks outputs from pool, largest first, until their total
// reaches target or the pool is exhausted. The picked outputs are removed
// from *pool; ties keep their original order.
//
// Callers check Covers on the result: an exhausted pool returns whatever was
// collected.
func SelectOutputs(target uint64, pool *[]*UnspentOutput) *Selection {
	sel := &Selection{}
	if pool == nil || len(*pool) == 0 {
		return sel
	}

	outs := make([]*UnspentOutput, 0, len(*pool))
	for _, u := range *pool {
		if u != nil {
			outs = append(outs, u)
		}
	}
	sort.SliceStable(outs, func(i, j int) bool {
		return outs[i].Value > outs[j].Value
	})

	taken := 0
	for _, u := range outs {
		sel.Inputs = append(sel.Inputs, u.Coin())
		if sel.Total > math.MaxUint64-u.Value {
			sel.Total = math.MaxUint64
		} else {
			sel.Total += u.Value
		}
		taken++
		if sel.Total >= target {
			break
		}
	}

	*pool = outs[taken:]
	return sel
}
