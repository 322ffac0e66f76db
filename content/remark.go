// Package content publishes documents by reference: a JSON document is
// pushed to a content store and a remark-only transfer carrying the
// reference is signed, journaled and broadcast.
package content

import (
	"fmt"
	"strings"
)

// StorageIPFS is the storage engine tag written into remarks.
const StorageIPFS = "IPFS"

// Kind says what a referenced document is.
type Kind string

const (
	KindPost      Kind = "P"
	KindAggregate Kind = "A"
)

// Remark is a content reference carried in a transaction remark, written
// as "<storage>;<kind>;<ref>", e.g. "IPFS;P;Qm...".
type Remark struct {
	Storage string
	Kind    Kind
	Ref     string
}

// NewRemark returns an IPFS remark for ref.
func NewRemark(kind Kind, ref string) Remark {
	return Remark{Storage: StorageIPFS, Kind: kind, Ref: ref}
}

func (r Remark) String() string {
	return r.Storage + ";" + string(r.Kind) + ";" + r.Ref
}

// ParseRemark decodes a content remark. The reference may itself contain
// semicolons.
func ParseRemark(s string) (Remark, error) {
	parts := strings.SplitN(s, ";", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Remark{}, fmt.Errorf("%w: %q", ErrInvalidRemark, s)
	}
	return Remark{Storage: parts[0], Kind: Kind(parts[1]), Ref: parts[2]}, nil
}
