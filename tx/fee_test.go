package tx

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitFeeFor(t *testing.T) {
	tests := []struct {
		typ  Type
		want uint64
	}{
		{TypeConsensusReward, UnitFee},
		{TypeTransfer, CheapUnitFee},
		{TypeAlias, UnitFee},
		{TypeRegisterAgent, UnitFee},
		{TypeJoinConsensus, UnitFee},
		{TypeCancelConsensus, UnitFee},
		{TypeStopAgent, UnitFee},
		{TypeContractCall, CheapUnitFee},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, UnitFeeFor(tt.typ))
		})
	}
}

func TestFeeForSize_KilobyteBoundaries(t *testing.T) {
	tests := []struct {
		size int
		want uint64
	}{
		{0, 0},
		{1, CheapUnitFee},
		{KB - 1, CheapUnitFee},
		{KB, CheapUnitFee},
		{KB + 1, 2 * CheapUnitFee},
		{2 * KB, 2 * CheapUnitFee},
		{2*KB + 1, 3 * CheapUnitFee},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FeeForSize(TypeTransfer, tt.size), "size %d", tt.size)
	}
	assert.Equal(t, 2*UnitFee, FeeForSize(TypeAlias, KB+1))
}

func TestFeeForSize_Monotonic(t *testing.T) {
	prev := uint64(0)
	for size := 0; size <= 4*KB; size++ {
		fee := FeeForSize(TypeTransfer, size)
		require.GreaterOrEqual(t, fee, prev, "size %d", size)
		prev = fee
	}
}

func TestEstimatedSize(t *testing.T) {
	tx := testTx(t, &TransferPayload{})
	// 2+6 header, 1+4 remark, 4 placeholder, 5+50 inputs, 5+50 outputs,
	// 5+108 worst-case scriptSig.
	assert.Equal(t, 240, tx.EstimatedSize())
	assert.Equal(t, CheapUnitFee, tx.CalculateFee())

	tx.ScriptSig = make([]byte, 10)
	assert.Equal(t, 142, tx.EstimatedSize())
}

func TestEstimatedSize_LongRemark(t *testing.T) {
	tx := testTx(t, &TransferPayload{})
	tx.Remark = bytes.Repeat([]byte{'r'}, 300)
	assert.Equal(t, 2+6+3+300+4+5+50+5+50+5+MaxScriptSigSize, tx.EstimatedSize())
}

func TestEstimatedSize_BoundsSerializedSize(t *testing.T) {
	for name, payload := range samplePayloads() {
		t.Run(name, func(t *testing.T) {
			tx := testTx(t, payload)
			unsigned := tx.EstimatedSize()
			require.NoError(t, tx.Sign(generateTestKey(t), DigestWire))
			raw, err := tx.Serialize()
			require.NoError(t, err)
			assert.LessOrEqual(t, len(raw), tx.EstimatedSize())
			assert.LessOrEqual(t, len(raw), unsigned)
		})
	}
}

func TestEstimatedSize_ContractCall(t *testing.T) {
	p := &ContractCallPayload{
		MethodName: "abc",
		MethodDesc: "de",
		Args:       [][]string{{"x", "yy"}, {}},
	}
	// 46 + 24 + (5+3) + (5+2) + 1 + (1 + 6 + 7) + 1
	assert.Equal(t, 46+24+8+7+1+14+1, p.maxSize())
}

func TestFeeSigned_LargeValues(t *testing.T) {
	big := func(v uint64) *Coin { return &Coin{Owner: Owned{Address: testAddress(1)}, Value: v} }
	tests := []struct {
		name    string
		inputs  []*Coin
		outputs []*Coin
		want    int64
	}{
		{"input above MaxInt64", []*Coin{big(math.MaxInt64 + 10)}, []*Coin{big(math.MaxInt64)}, 10},
		{"output above MaxInt64", []*Coin{big(5)}, []*Coin{big(math.MaxInt64 + 10)}, math.MinInt64},
		{"difference above MaxInt64", []*Coin{big(math.MaxUint64)}, []*Coin{big(1)}, math.MaxInt64},
		{"overflowing inputs saturate", []*Coin{big(math.MaxUint64), big(1)}, []*Coin{big(1)}, math.MaxInt64},
		{"exact negative MaxInt64", nil, []*Coin{big(math.MaxInt64)}, -math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Type: TypeTransfer, Payload: &TransferPayload{}, Inputs: tt.inputs, Outputs: tt.outputs}
			assert.Equal(t, tt.want, tx.FeeSigned())
		})
	}
}

func TestFee(t *testing.T) {
	tx := testTx(t, &TransferPayload{})
	fee, err := tx.Fee()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000), fee)
	assert.Equal(t, int64(1000000), tx.FeeSigned())

	tx.Outputs[0].Value = 200000000
	_, err = tx.Fee()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(-100000000), tx.FeeSigned())
}

func TestFee_Overflow(t *testing.T) {
	tx := testTx(t, &TransferPayload{})
	tx.Inputs = append(tx.Inputs, &Coin{Owner: Spending{Hash: testHash(1)}, Value: math.MaxUint64})
	_, err := tx.Fee()
	assert.ErrorIs(t, err, ErrEncoding)
}
