package codec

import (
	"bytes"
	"testing"
)

// FuzzVarIntNoPanic ensures VarInt never panics and reports a sane length.
func FuzzVarIntNoPanic(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte{0xfd, 0x00})
	f.Add([]byte{0xfd, 0x04, 0x00})
	f.Add([]byte{0xfe, 0x01, 0x02, 0x03, 0x04})
	f.Add([]byte{0xff})

	f.Fuzz(func(t *testing.T, b []byte) {
		v, n, err := VarInt(b)
		if err != nil {
			return
		}
		if n > len(b) {
			t.Fatalf("consumed %d bytes of %d", n, len(b))
		}
		if n != VarIntSize(v) {
			t.Fatalf("value %d decoded from %d bytes, canonical size %d", v, n, VarIntSize(v))
		}
		if enc := AppendVarInt(nil, v); !bytes.Equal(enc, b[:n]) {
			t.Fatalf("decoded %x re-encodes as %x", b[:n], enc)
		}
	})
}

// FuzzVarIntRoundTrip verifies AppendVarInt followed by VarInt is the identity.
func FuzzVarIntRoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(253))
	f.Add(uint64(1 << 40))

	f.Fuzz(func(t *testing.T, v uint64) {
		enc := AppendVarInt(nil, v)
		got, n, err := VarInt(enc)
		if err != nil {
			t.Fatalf("VarInt: %v", err)
		}
		if got != v || n != len(enc) {
			t.Fatalf("round trip %d -> %x -> %d (%d bytes)", v, enc, got, n)
		}
	})
}
