package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader is a forward-only cursor over a byte slice. Every read that would
// run past the end of the buffer fails with ErrFormat; nothing is zero-filled.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// NewReaderAt returns a Reader positioned at cursor.
func NewReaderAt(b []byte, cursor int) *Reader {
	return &Reader{buf: b, pos: cursor}
}

// Pos returns the current cursor.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

func (r *Reader) need(n int, what string) error {
	if n < 0 || r.pos < 0 || r.Remaining() < n {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, have %d",
			ErrFormat, what, n, r.pos, r.Remaining())
	}
	return nil
}

// ReadN returns a copy of the next n bytes.
func (r *Reader) ReadN(n int) ([]byte, error) {
	if err := r.need(n, "field"); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n, "skip"); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1, "byte"); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16 reads a 2-byte little-endian integer.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2, "uint16"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint48 reads a 6-byte little-endian unsigned integer.
func (r *Reader) ReadUint48() (uint64, error) {
	if err := r.need(6, "uint48"); err != nil {
		return 0, err
	}
	v := Uint48(r.buf[r.pos:])
	r.pos += 6
	return v, nil
}

// ReadInt48 reads a 6-byte little-endian signed integer (see Int48).
func (r *Reader) ReadInt48() (int64, error) {
	if err := r.need(6, "int48"); err != nil {
		return 0, err
	}
	v := Int48(r.buf[r.pos:])
	r.pos += 6
	return v, nil
}

// ReadUint64 reads an 8-byte little-endian integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8, "uint64"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadFloat64 reads an 8-byte little-endian IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadVarInt reads a variable-length integer.
func (r *Reader) ReadVarInt() (uint64, error) {
	if r.Remaining() == 0 {
		return 0, fmt.Errorf("%w: varint at offset %d past end", ErrFormat, r.pos)
	}
	v, n, err := VarInt(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// ReadVarBytes reads a varint length followed by that many bytes.
func (r *Reader) ReadVarBytes() ([]byte, error) {
	n, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, fmt.Errorf("%w: length prefix %d exceeds remaining %d bytes",
			ErrFormat, n, r.Remaining())
	}
	return r.ReadN(int(n))
}

// ReadVarString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadVarString() (string, error) {
	b, err := r.ReadVarBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
