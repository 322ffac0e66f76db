package codec

import (
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// DoubleHashSize is the length of a DoubleHash output.
const DoubleHashSize = 32

// DoubleHash computes SHA256(SHA256(b)), used for transaction digests.
func DoubleHash(b []byte) []byte {
	return bsvhash.Sha256d(b)
}

// Hash160 computes RIPEMD160(SHA256(b)), used to derive address hashes.
func Hash160(b []byte) []byte {
	return bsvhash.Hash160(b)
}
