package journal

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("journal: nil parameter")

	// ErrInvalidHash indicates a transaction hash of the wrong length.
	ErrInvalidHash = errors.New("journal: invalid transaction hash")

	// ErrTxNotFound indicates no record exists for the hash.
	ErrTxNotFound = errors.New("journal: transaction not found")

	// ErrDuplicateTx indicates a record for the hash already exists.
	ErrDuplicateTx = errors.New("journal: transaction already recorded")

	// ErrAlreadyBroadcast indicates a state change on a record the network
	// has already accepted.
	ErrAlreadyBroadcast = errors.New("journal: transaction already broadcast")
)
