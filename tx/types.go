package tx

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nulsworld/libnuls-go/codec"
)

// Type is the transaction type tag.
type Type uint16

// Supported transaction types.
const (
	TypeConsensusReward Type = 1
	TypeTransfer        Type = 2
	TypeAlias           Type = 3
	TypeRegisterAgent   Type = 4
	TypeJoinConsensus   Type = 5
	TypeCancelConsensus Type = 6
	TypeStopAgent       Type = 9
	TypeContractCall    Type = 101
)

var typeNames = map[Type]string{
	TypeConsensusReward: "consensus_reward",
	TypeTransfer:        "transfer",
	TypeAlias:           "alias",
	TypeRegisterAgent:   "register_agent",
	TypeJoinConsensus:   "join_consensus",
	TypeCancelConsensus: "cancel_consensus",
	TypeStopAgent:       "stop_agent",
	TypeContractCall:    "contract_call",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint16(t))
}

const (
	// HashLength is the size of a digest reference: alg(1) + len(1) + sha256d(32).
	HashLength = 2 + codec.DoubleHashSize

	// MinHashLength is the shortest digest reference accepted inside a coin.
	MinHashLength = codec.DoubleHashSize

	// hashAlgSHA256 is the algorithm tag of a double SHA-256 digest reference.
	hashAlgSHA256 = 0x00
)

// Hash is a digest reference in its wire form: alg || len || digest.
// Its text form is hex.
type Hash []byte

// NewHash wraps a raw double-hash digest into a digest reference.
func NewHash(digest []byte) Hash {
	h := make(Hash, 0, 2+len(digest))
	h = append(h, hashAlgSHA256, byte(len(digest)))
	return append(h, digest...)
}

// HashFromHex decodes a hex digest reference.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: hash %q: %w", ErrValidation, s, err)
	}
	return Hash(b), nil
}

// Digest returns the raw digest without the alg/len prefix, or the hash
// itself when it carries no prefix.
func (h Hash) Digest() []byte {
	if len(h) >= 2 && h[0] == hashAlgSHA256 && int(h[1]) == len(h)-2 {
		return h[2:]
	}
	return h
}

func (h Hash) String() string {
	return hex.EncodeToString(h)
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	dec, err := HashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = dec
	return nil
}

// DigestMode selects the header layout hashed into the signing digest.
//
// DigestWire hashes the on-wire header: type(2, LE) || time(6, LE).
// DigestCompact hashes type(1) || 0xFF || time(8, LE).
//
// The two layouts produce different digests for the same transaction.
// Which one the target network validates against must be pinned by the
// caller; neither is applied implicitly.
type DigestMode int

const (
	DigestWire DigestMode = iota
	DigestCompact
)

func (m DigestMode) String() string {
	switch m {
	case DigestWire:
		return "wire"
	case DigestCompact:
		return "compact"
	default:
		return fmt.Sprintf("digestmode(%d)", int(m))
	}
}

// ParseDigestMode parses "wire" or "compact".
func ParseDigestMode(s string) (DigestMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wire":
		return DigestWire, nil
	case "compact":
		return DigestCompact, nil
	default:
		return 0, fmt.Errorf("%w: digest mode %q", ErrInvalidParams, s)
	}
}
