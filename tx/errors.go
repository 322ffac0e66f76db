package tx

import (
	"errors"

	"github.com/nulsworld/libnuls-go/codec"
)

// Codec error kinds, re-exported so callers can match them with errors.Is
// without importing codec.
var (
	ErrFormat          = codec.ErrFormat
	ErrUnsupportedType = codec.ErrUnsupportedType
	ErrValidation      = codec.ErrValidation
	ErrEncoding        = codec.ErrEncoding
)

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInsufficientFunds indicates the unspent outputs cannot cover amount plus fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrInvalidScriptSig indicates the scriptSig blob is malformed or missing.
	ErrInvalidScriptSig = errors.New("tx: invalid scriptSig")

	// ErrInvalidSignature indicates the signature does not match the digest.
	ErrInvalidSignature = errors.New("tx: signature verification failed")

	// ErrInvalidParams indicates invalid parameters were provided.
	ErrInvalidParams = errors.New("tx: invalid parameters")
)
