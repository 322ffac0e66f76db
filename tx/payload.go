package tx

import (
	"bytes"
	"fmt"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/codec"
)

// placeholder is the fixed payload of types that carry no data.
var placeholder = []byte{0xFF, 0xFF, 0xFF, 0xFF}

// Payload is the type-specific section of a transaction.
//
// The set of implementations is closed to this package. Adding a type means
// adding an implementation and registering it in payloadTypes.
type Payload interface {
	Type() Type
	appendTo(b []byte) ([]byte, error)
	parse(r *codec.Reader) error
	maxSize() int
	plain() map[string]any
}

var payloadTypes = map[Type]func() Payload{
	TypeConsensusReward: func() Payload { return &RewardPayload{} },
	TypeTransfer:        func() Payload { return &TransferPayload{} },
	TypeAlias:           func() Payload { return &AliasPayload{} },
	TypeRegisterAgent:   func() Payload { return &RegisterAgentPayload{} },
	TypeJoinConsensus:   func() Payload { return &JoinConsensusPayload{} },
	TypeCancelConsensus: func() Payload { return &CancelConsensusPayload{} },
	TypeStopAgent:       func() Payload { return &StopAgentPayload{} },
	TypeContractCall:    func() Payload { return &ContractCallPayload{} },
}

// NewPayload returns an empty payload for t.
func NewPayload(t Type) (Payload, error) {
	newFn, ok := payloadTypes[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, uint16(t))
	}
	return newFn(), nil
}

// IsSupported reports whether t has a registered payload.
func IsSupported(t Type) bool {
	_, ok := payloadTypes[t]
	return ok
}

// --- shared field helpers ---

func readPlaceholder(r *codec.Reader) error {
	b, err := r.ReadN(len(placeholder))
	if err != nil {
		return fmt.Errorf("placeholder: %w", err)
	}
	if !bytes.Equal(b, placeholder) {
		return fmt.Errorf("%w: placeholder is %x", ErrFormat, b)
	}
	return nil
}

func readAddress(r *codec.Reader, field string) (address.Address, error) {
	b, err := r.ReadN(address.Length)
	if err != nil {
		return address.Address{}, fmt.Errorf("%s: %w", field, err)
	}
	addr, _ := address.FromBytes(b)
	return addr, nil
}

func readHash(r *codec.Reader, field string) (Hash, error) {
	b, err := r.ReadN(HashLength)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return Hash(b), nil
}

func appendHash(b []byte, h Hash, field string) ([]byte, error) {
	if len(h) != HashLength {
		return b, fmt.Errorf("%w: %s is %d bytes, want %d", ErrValidation, field, len(h), HashLength)
	}
	return append(b, h...), nil
}

// --- types 1 and 2 ---

// RewardPayload is the empty payload of a consensus reward.
type RewardPayload struct{}

func (*RewardPayload) Type() Type                        { return TypeConsensusReward }
func (*RewardPayload) appendTo(b []byte) ([]byte, error) { return append(b, placeholder...), nil }
func (*RewardPayload) parse(r *codec.Reader) error       { return readPlaceholder(r) }
func (*RewardPayload) maxSize() int                      { return len(placeholder) }
func (*RewardPayload) plain() map[string]any             { return map[string]any{} }

// TransferPayload is the empty payload of a transfer.
type TransferPayload struct{}

func (*TransferPayload) Type() Type                        { return TypeTransfer }
func (*TransferPayload) appendTo(b []byte) ([]byte, error) { return append(b, placeholder...), nil }
func (*TransferPayload) parse(r *codec.Reader) error       { return readPlaceholder(r) }
func (*TransferPayload) maxSize() int                      { return len(placeholder) }
func (*TransferPayload) plain() map[string]any             { return map[string]any{} }

// --- type 3 ---

// AliasPayload binds a human-readable alias to an address.
type AliasPayload struct {
	Address address.Address `mapstructure:"address"`
	Alias   string          `mapstructure:"alias"`
}

func (*AliasPayload) Type() Type { return TypeAlias }

func (p *AliasPayload) appendTo(b []byte) ([]byte, error) {
	b = codec.AppendVarBytes(b, p.Address[:])
	return codec.AppendVarString(b, p.Alias), nil
}

func (p *AliasPayload) parse(r *codec.Reader) error {
	raw, err := r.ReadVarBytes()
	if err != nil {
		return fmt.Errorf("alias address: %w", err)
	}
	addr, err := address.FromBytes(raw)
	if err != nil {
		return fmt.Errorf("%w: alias address: %w", ErrFormat, err)
	}
	p.Address = addr
	if p.Alias, err = r.ReadVarString(); err != nil {
		return fmt.Errorf("alias: %w", err)
	}
	return nil
}

func (p *AliasPayload) maxSize() int {
	exact := codec.VarBytesSize(address.Length) + codec.VarBytesSize(len(p.Alias))
	return max(2*address.Length+2, exact)
}

func (p *AliasPayload) plain() map[string]any {
	return map[string]any{
		"address": p.Address.String(),
		"alias":   p.Alias,
	}
}

// --- type 4 ---

// RegisterAgentPayload registers a consensus agent.
type RegisterAgentPayload struct {
	Deposit        uint64          `mapstructure:"deposit"`
	AgentAddress   address.Address `mapstructure:"agentAddress"`
	PackingAddress address.Address `mapstructure:"packingAddress"`
	RewardAddress  address.Address `mapstructure:"rewardAddress"`
	CommissionRate float64         `mapstructure:"commissionRate"`
}

func (*RegisterAgentPayload) Type() Type { return TypeRegisterAgent }

func (p *RegisterAgentPayload) appendTo(b []byte) ([]byte, error) {
	b = codec.AppendUint64(b, p.Deposit)
	b = append(b, p.AgentAddress[:]...)
	b = append(b, p.PackingAddress[:]...)
	b = append(b, p.RewardAddress[:]...)
	return codec.AppendFloat64(b, p.CommissionRate), nil
}

func (p *RegisterAgentPayload) parse(r *codec.Reader) error {
	var err error
	if p.Deposit, err = r.ReadUint64(); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	if p.AgentAddress, err = readAddress(r, "agent address"); err != nil {
		return err
	}
	if p.PackingAddress, err = readAddress(r, "packing address"); err != nil {
		return err
	}
	if p.RewardAddress, err = readAddress(r, "reward address"); err != nil {
		return err
	}
	if p.CommissionRate, err = r.ReadFloat64(); err != nil {
		return fmt.Errorf("commission rate: %w", err)
	}
	return nil
}

func (*RegisterAgentPayload) maxSize() int { return 8 + 3*address.Length + 8 }

func (p *RegisterAgentPayload) plain() map[string]any {
	return map[string]any{
		"deposit":        p.Deposit,
		"agentAddress":   p.AgentAddress.String(),
		"packingAddress": p.PackingAddress.String(),
		"rewardAddress":  p.RewardAddress.String(),
		"commissionRate": p.CommissionRate,
	}
}

// --- type 5 ---

// JoinConsensusPayload deposits stake with an agent.
type JoinConsensusPayload struct {
	Deposit   uint64          `mapstructure:"deposit"`
	Address   address.Address `mapstructure:"address"`
	AgentHash Hash            `mapstructure:"agentHash"`
}

func (*JoinConsensusPayload) Type() Type { return TypeJoinConsensus }

func (p *JoinConsensusPayload) appendTo(b []byte) ([]byte, error) {
	b = codec.AppendUint64(b, p.Deposit)
	b = append(b, p.Address[:]...)
	return appendHash(b, p.AgentHash, "agent hash")
}

func (p *JoinConsensusPayload) parse(r *codec.Reader) error {
	var err error
	if p.Deposit, err = r.ReadUint64(); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	if p.Address, err = readAddress(r, "address"); err != nil {
		return err
	}
	p.AgentHash, err = readHash(r, "agent hash")
	return err
}

func (*JoinConsensusPayload) maxSize() int { return 8 + address.Length + HashLength }

func (p *JoinConsensusPayload) plain() map[string]any {
	return map[string]any{
		"deposit":   p.Deposit,
		"address":   p.Address.String(),
		"agentHash": p.AgentHash.String(),
	}
}

// --- type 6 ---

// CancelConsensusPayload withdraws a previous join.
type CancelConsensusPayload struct {
	JoinTxHash Hash `mapstructure:"joinTxHash"`
}

func (*CancelConsensusPayload) Type() Type { return TypeCancelConsensus }

func (p *CancelConsensusPayload) appendTo(b []byte) ([]byte, error) {
	return appendHash(b, p.JoinTxHash, "join tx hash")
}

func (p *CancelConsensusPayload) parse(r *codec.Reader) (err error) {
	p.JoinTxHash, err = readHash(r, "join tx hash")
	return err
}

func (*CancelConsensusPayload) maxSize() int { return HashLength }

func (p *CancelConsensusPayload) plain() map[string]any {
	return map[string]any{"joinTxHash": p.JoinTxHash.String()}
}

// --- type 9 ---

// StopAgentPayload stops a registered agent.
type StopAgentPayload struct {
	CreateTxHash Hash `mapstructure:"createTxHash"`
}

func (*StopAgentPayload) Type() Type { return TypeStopAgent }

func (p *StopAgentPayload) appendTo(b []byte) ([]byte, error) {
	return appendHash(b, p.CreateTxHash, "create tx hash")
}

func (p *StopAgentPayload) parse(r *codec.Reader) (err error) {
	p.CreateTxHash, err = readHash(r, "create tx hash")
	return err
}

func (*StopAgentPayload) maxSize() int { return HashLength }

func (p *StopAgentPayload) plain() map[string]any {
	return map[string]any{"createTxHash": p.CreateTxHash.String()}
}

// --- type 101 ---

// ContractCallPayload invokes a smart contract method.
//
// Args is a list of argument groups, each a list of strings. Group and item
// counts are encoded as single bytes.
type ContractCallPayload struct {
	Sender          address.Address `mapstructure:"sender"`
	ContractAddress address.Address `mapstructure:"contractAddress"`
	Value           uint64          `mapstructure:"value"`
	GasLimit        uint64          `mapstructure:"gasLimit"`
	Price           uint64          `mapstructure:"price"`
	MethodName      string          `mapstructure:"methodName"`
	MethodDesc      string          `mapstructure:"methodDesc"`
	Args            [][]string      `mapstructure:"args"`
}

func (*ContractCallPayload) Type() Type { return TypeContractCall }

const maxArgCount = 0xFF

func (p *ContractCallPayload) appendTo(b []byte) ([]byte, error) {
	if len(p.Args) > maxArgCount {
		return b, fmt.Errorf("%w: %d argument groups", ErrEncoding, len(p.Args))
	}
	b = append(b, p.Sender[:]...)
	b = append(b, p.ContractAddress[:]...)
	b = codec.AppendUint64(b, p.Value)
	b = codec.AppendUint64(b, p.GasLimit)
	b = codec.AppendUint64(b, p.Price)
	b = codec.AppendVarString(b, p.MethodName)
	b = codec.AppendVarString(b, p.MethodDesc)
	b = append(b, byte(len(p.Args)))
	for i, group := range p.Args {
		if len(group) > maxArgCount {
			return b, fmt.Errorf("%w: argument group %d has %d items", ErrEncoding, i, len(group))
		}
		b = append(b, byte(len(group)))
		for _, item := range group {
			b = codec.AppendVarString(b, item)
		}
	}
	return b, nil
}

func (p *ContractCallPayload) parse(r *codec.Reader) error {
	var err error
	if p.Sender, err = readAddress(r, "sender"); err != nil {
		return err
	}
	if p.ContractAddress, err = readAddress(r, "contract address"); err != nil {
		return err
	}
	if p.Value, err = r.ReadUint64(); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	if p.GasLimit, err = r.ReadUint64(); err != nil {
		return fmt.Errorf("gas limit: %w", err)
	}
	if p.Price, err = r.ReadUint64(); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	if p.MethodName, err = r.ReadVarString(); err != nil {
		return fmt.Errorf("method name: %w", err)
	}
	if p.MethodDesc, err = r.ReadVarString(); err != nil {
		return fmt.Errorf("method desc: %w", err)
	}

	groups, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("argument count: %w", err)
	}
	p.Args = nil
	if groups > 0 {
		p.Args = make([][]string, 0, groups)
	}
	for i := 0; i < int(groups); i++ {
		items, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("argument group %d: %w", i, err)
		}
		group := make([]string, 0, items)
		for j := 0; j < int(items); j++ {
			s, err := r.ReadVarString()
			if err != nil {
				return fmt.Errorf("argument %d.%d: %w", i, j, err)
			}
			group = append(group, s)
		}
		p.Args = append(p.Args, group)
	}
	return nil
}

func (p *ContractCallPayload) maxSize() int {
	size := 2*address.Length + 3*8 +
		5 + len(p.MethodName) +
		5 + len(p.MethodDesc) +
		1
	for _, group := range p.Args {
		size++
		for _, item := range group {
			size += 5 + len(item)
		}
	}
	return size
}

func (p *ContractCallPayload) plain() map[string]any {
	var args [][]string
	for _, group := range p.Args {
		args = append(args, append([]string{}, group...))
	}
	return map[string]any{
		"sender":          p.Sender.String(),
		"contractAddress": p.ContractAddress.String(),
		"value":           p.Value,
		"gasLimit":        p.GasLimit,
		"price":           p.Price,
		"methodName":      p.MethodName,
		"methodDesc":      p.MethodDesc,
		"args":            args,
	}
}
