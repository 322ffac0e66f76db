package storage

import "errors"

var (
	// ErrNotFound indicates no content exists for the given key.
	ErrNotFound = errors.New("storage: content not found")

	// ErrInvalidKey indicates the key is not exactly 32 bytes.
	ErrInvalidKey = errors.New("storage: key must be 32 bytes")

	// ErrInvalidRef indicates a content reference that is not 64 hex characters.
	ErrInvalidRef = errors.New("storage: invalid content reference")

	// ErrKeyMismatch indicates the key is not the double hash of the content.
	ErrKeyMismatch = errors.New("storage: key does not match content")

	// ErrIOFailure indicates a file read/write error.
	ErrIOFailure = errors.New("storage: I/O failure")

	// ErrEmptyContent indicates an attempt to store empty content.
	ErrEmptyContent = errors.New("storage: content is empty")

	// ErrInvalidBaseDir indicates the base directory path is invalid.
	ErrInvalidBaseDir = errors.New("storage: invalid base directory")

	// ErrUnsupportedCompression indicates an unsupported compression scheme.
	ErrUnsupportedCompression = errors.New("storage: unsupported compression scheme")

	// ErrCorrupted indicates a stored file failed to decode or verify.
	ErrCorrupted = errors.New("storage: stored content is corrupted")

	// ErrDecompressedTooLarge indicates decompressed data exceeds the safety limit.
	ErrDecompressedTooLarge = errors.New("storage: decompressed data exceeds maximum size")
)
