package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Varint marker bytes. Values below varIntMarker16 are stored as a single byte.
const (
	varIntMarker16 = 0xfd
	varIntMarker32 = 0xfe
	varIntMarker64 = 0xff
)

// VarIntSize returns the encoded length of v in bytes (1, 3, 5 or 9).
func VarIntSize(v uint64) int {
	switch {
	case v < varIntMarker16:
		return 1
	case v <= math.MaxUint16:
		return 3
	case v <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// AppendVarInt appends the variable-length encoding of v to b.
//
//	v <  253          -> v
//	v <= 0xFFFF       -> 0xFD + uint16 LE
//	v <= 0xFFFFFFFF   -> 0xFE + uint32 LE
//	otherwise         -> 0xFF + uint64 LE
//
// The 0xFF form is never produced by the reference network client; it is
// accepted here so that every uint64 has an encoding.
func AppendVarInt(b []byte, v uint64) []byte {
	switch {
	case v < varIntMarker16:
		return append(b, byte(v))
	case v <= math.MaxUint16:
		b = append(b, varIntMarker16)
		return binary.LittleEndian.AppendUint16(b, uint16(v))
	case v <= math.MaxUint32:
		b = append(b, varIntMarker32)
		return binary.LittleEndian.AppendUint32(b, uint32(v))
	default:
		b = append(b, varIntMarker64)
		return binary.LittleEndian.AppendUint64(b, v)
	}
}

// VarInt decodes a varint from the start of b.
// Returns the value and the number of bytes consumed. A value written in a
// wider form than it needs is ErrFormat.
func VarInt(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("%w: empty varint", ErrFormat)
	}

	var size int
	switch b[0] {
	case varIntMarker16:
		size = 3
	case varIntMarker32:
		size = 5
	case varIntMarker64:
		size = 9
	default:
		return uint64(b[0]), 1, nil
	}

	if len(b) < size {
		return 0, 0, fmt.Errorf("%w: varint needs %d bytes, have %d", ErrFormat, size, len(b))
	}

	var v uint64
	switch size {
	case 3:
		v = uint64(binary.LittleEndian.Uint16(b[1:3]))
	case 5:
		v = uint64(binary.LittleEndian.Uint32(b[1:5]))
	default:
		v = binary.LittleEndian.Uint64(b[1:9])
	}
	// Only the shortest form is accepted, so a decoded value re-encodes to
	// the bytes it came from.
	if VarIntSize(v) != size {
		return 0, 0, fmt.Errorf("%w: non-canonical varint %x", ErrFormat, b[:size])
	}
	return v, size, nil
}

// AppendVarBytes appends data prefixed with its varint length.
func AppendVarBytes(b, data []byte) []byte {
	b = AppendVarInt(b, uint64(len(data)))
	return append(b, data...)
}

// AppendVarString appends s prefixed with its UTF-8 byte length (not its
// rune count).
func AppendVarString(b []byte, s string) []byte {
	b = AppendVarInt(b, uint64(len(s)))
	return append(b, s...)
}

// VarBytesSize returns the encoded size of an n-byte length-prefixed field.
func VarBytesSize(n int) int {
	return VarIntSize(uint64(n)) + n
}
