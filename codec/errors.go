package codec

import "errors"

var (
	// ErrFormat indicates malformed or truncated bytes, or an inconsistent length prefix.
	ErrFormat = errors.New("codec: malformed data")

	// ErrUnsupportedType indicates a type tag or integer width outside the supported set.
	ErrUnsupportedType = errors.New("codec: unsupported type")

	// ErrValidation indicates a structurally invalid value (missing owner, negative amount, ...).
	ErrValidation = errors.New("codec: validation failed")

	// ErrEncoding indicates a value that does not fit the chosen integer width.
	ErrEncoding = errors.New("codec: value out of range")
)
