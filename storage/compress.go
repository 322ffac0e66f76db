package storage

import (
	"bytes"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
)

// Scheme identifies how a stored file body is compressed. It is written as
// the first byte of every file.
type Scheme byte

const (
	CompressNone Scheme = 0
	CompressGZIP Scheme = 1
	CompressLZW  Scheme = 2
)

// MaxDecompressedSize bounds the output of Decompress (64 MB).
const MaxDecompressedSize = 64 << 20

func (s Scheme) String() string {
	switch s {
	case CompressNone:
		return "none"
	case CompressGZIP:
		return "gzip"
	case CompressLZW:
		return "lzw"
	default:
		return fmt.Sprintf("scheme(%d)", byte(s))
	}
}

// Compress compresses data using the specified scheme.
func Compress(data []byte, scheme Scheme) ([]byte, error) {
	switch scheme {
	case CompressNone:
		return data, nil
	case CompressLZW:
		return compressLZW(data)
	case CompressGZIP:
		return compressGZIP(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, scheme)
	}
}

// Decompress decompresses data using the specified scheme.
func Decompress(data []byte, scheme Scheme) ([]byte, error) {
	switch scheme {
	case CompressNone:
		return data, nil
	case CompressLZW:
		r := lzw.NewReader(bytes.NewReader(data), lzw.LSB, 8)
		defer r.Close()
		return readLimited(r)
	case CompressGZIP:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}
		defer r.Close()
		return readLimited(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, scheme)
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if len(out) > MaxDecompressedSize {
		return nil, ErrDecompressedTooLarge
	}
	return out, nil
}

func compressLZW(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.LSB, 8)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compressGZIP(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
