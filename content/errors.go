package content

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("content: nil parameter")

	// ErrInvalidRemark indicates a remark that is not "<storage>;<kind>;<ref>".
	ErrInvalidRemark = errors.New("content: invalid content remark")

	// ErrEmptyRef indicates the content service returned no reference.
	ErrEmptyRef = errors.New("content: content service returned an empty reference")

	// ErrOffline indicates a publish attempt without a broadcaster.
	ErrOffline = errors.New("content: no broadcaster configured")
)
