package tx

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/codec"
)

// SigAlgECDSA is the algorithm tag written between the public key and the
// signature in a scriptSig.
const SigAlgECDSA byte = 0x00

// MaxScriptSigSize bounds a scriptSig: var(33-byte compressed key) || alg ||
// var(72-byte DER signature).
const MaxScriptSigSize = 1 + 33 + 1 + 1 + 72

// ScriptSig is the decoded signature blob of a transaction:
// var(pubkey) || alg || var(DER signature).
type ScriptSig struct {
	PublicKey []byte
	Algorithm byte
	Signature []byte
}

// Bytes returns the wire encoding of the scriptSig.
func (s *ScriptSig) Bytes() []byte {
	b := make([]byte, 0, 3+len(s.PublicKey)+len(s.Signature))
	b = codec.AppendVarBytes(b, s.PublicKey)
	b = append(b, s.Algorithm)
	return codec.AppendVarBytes(b, s.Signature)
}

// ParseScriptSig decodes a scriptSig blob.
func ParseScriptSig(b []byte) (*ScriptSig, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidScriptSig)
	}
	r := codec.NewReader(b)
	s := &ScriptSig{}
	var err error
	if s.PublicKey, err = r.ReadVarBytes(); err != nil {
		return nil, fmt.Errorf("%w: public key: %w", ErrInvalidScriptSig, err)
	}
	if s.Algorithm, err = r.ReadByte(); err != nil {
		return nil, fmt.Errorf("%w: algorithm: %w", ErrInvalidScriptSig, err)
	}
	if s.Signature, err = r.ReadVarBytes(); err != nil {
		return nil, fmt.Errorf("%w: signature: %w", ErrInvalidScriptSig, err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidScriptSig, r.Remaining())
	}
	return s, nil
}

// Sign computes the digest under mode, signs it with key and stores the
// resulting scriptSig on the transaction. Signing twice replaces the
// previous scriptSig; the digest does not cover it.
func (t *Transaction) Sign(key *ec.PrivateKey, mode DigestMode) error {
	if key == nil {
		return fmt.Errorf("%w: private key", ErrNilParam)
	}
	digest, err := t.Digest(mode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	sig, err := key.Sign(digest)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	ss := &ScriptSig{
		PublicKey: key.PubKey().Compressed(),
		Algorithm: SigAlgECDSA,
		Signature: sig.Serialize(),
	}
	t.ScriptSig = ss.Bytes()
	return nil
}

// VerifySignature checks the scriptSig against the digest computed under mode.
func (t *Transaction) VerifySignature(mode DigestMode) error {
	ss, err := ParseScriptSig(t.ScriptSig)
	if err != nil {
		return err
	}
	if ss.Algorithm != SigAlgECDSA {
		return fmt.Errorf("%w: algorithm %d", ErrInvalidScriptSig, ss.Algorithm)
	}
	pub, err := ec.PublicKeyFromBytes(ss.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: public key: %w", ErrInvalidScriptSig, err)
	}
	sig, err := ec.ParseDERSignature(ss.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature: %w", ErrInvalidScriptSig, err)
	}
	digest, err := t.Digest(mode)
	if err != nil {
		return err
	}
	if !sig.Verify(digest, pub) {
		return ErrInvalidSignature
	}
	return nil
}

// Signer returns the address of the public key embedded in the scriptSig.
func (t *Transaction) Signer(p address.Params) (address.Address, error) {
	ss, err := ParseScriptSig(t.ScriptSig)
	if err != nil {
		return address.Address{}, err
	}
	return address.FromPublicKey(ss.PublicKey, p), nil
}
