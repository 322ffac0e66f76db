package wallet

import "errors"

var (
	// ErrKeyNotFound indicates no key is held for the address.
	ErrKeyNotFound = errors.New("wallet: key not found")

	// ErrInvalidKey indicates private key material is malformed.
	ErrInvalidKey = errors.New("wallet: invalid private key")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("wallet: required parameter is nil")
)
