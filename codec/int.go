package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// MaxUint48 is the largest value representable in 6 bytes.
	MaxUint48 = 1<<48 - 1

	// NoLock is the lock time decoded from an all-ones 48-bit field.
	NoLock = -1

	minInt48 = -(1 << 47)
	maxInt48 = 1<<47 - 1
)

// AppendUint48 appends v as 6 little-endian bytes.
func AppendUint48(b []byte, v uint64) ([]byte, error) {
	if v > MaxUint48 {
		return b, fmt.Errorf("%w: %d exceeds 48 bits", ErrEncoding, v)
	}
	return append(b,
		byte(v), byte(v>>8), byte(v>>16),
		byte(v>>24), byte(v>>32), byte(v>>40)), nil
}

// Uint48 decodes 6 little-endian bytes. b must hold at least 6 bytes.
func Uint48(b []byte) uint64 {
	_ = b[5]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
		uint64(b[3])<<24 | uint64(b[4])<<32 | uint64(b[5])<<40
}

// AppendInt48 appends v as a 6-byte little-endian two's complement integer.
func AppendInt48(b []byte, v int64) ([]byte, error) {
	if v < minInt48 || v > maxInt48 {
		return b, fmt.Errorf("%w: %d exceeds signed 48 bits", ErrEncoding, v)
	}
	return AppendUint48(b, uint64(v)&MaxUint48)
}

// Int48 decodes a signed 6-byte little-endian integer. The all-ones
// pattern is the "no lock" sentinel and always decodes to NoLock.
func Int48(b []byte) int64 {
	u := Uint48(b)
	if u == MaxUint48 {
		return NoLock
	}
	if u&(1<<47) != 0 {
		return int64(u) - (1 << 48)
	}
	return int64(u)
}

// AppendUint16 appends v as 2 little-endian bytes.
func AppendUint16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

// AppendUint64 appends v as 8 little-endian bytes.
func AppendUint64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

// Uint64 decodes 8 little-endian bytes.
func Uint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// AppendFloat64 appends the IEEE 754 bits of f, little-endian.
func AppendFloat64(b []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
}
