package address

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("address: required parameter is nil")

	// ErrInvalidLength indicates the decoded address is not 23 bytes.
	ErrInvalidLength = errors.New("address: invalid length")

	// ErrInvalidEncoding indicates the text is not valid base58.
	ErrInvalidEncoding = errors.New("address: invalid base58 encoding")

	// ErrChecksum indicates the trailing XOR checksum does not match.
	ErrChecksum = errors.New("address: checksum mismatch")
)
