package extrinsic

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/fee"
)

// Version is the signed extrinsic format version byte: bit 7 marks a signed
// extrinsic, the low bits carry the format version.
const Version byte = 0x80 | 4

// Payloads longer than this are hashed before signing.
const maxUnhashedPayload = 256

var (
	ErrUnsupportedVersion = errors.New("unsupported extrinsic version")
	ErrEmptyExtrinsic     = errors.New("empty extrinsic")
)

// Nonce counts the extrinsics applied from an account.
type Nonce uint32

// Signature is an ed25519 signature.
type Signature [crypto.Ed25519SignatureSize]byte

// DispatchClass decides which share of the block a call may use.
type DispatchClass uint8

const (
	// Normal calls are limited to the available block ratio.
	Normal DispatchClass = iota
	// Operational calls may use the whole block.
	Operational
)

func (c DispatchClass) String() string {
	switch c {
	case Normal:
		return "normal"
	case Operational:
		return "operational"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Call is an opaque dispatchable call. Only its dispatch metadata is
// interpreted here; Args belong to the module that executes it.
type Call struct {
	Module   uint8
	Function uint8
	Args     []byte
	Class    DispatchClass
	// GasLimit is the contract execution gas the call may consume, zero for
	// calls that do not execute contracts.
	GasLimit uint64
}

// Extra is the validation data every signed extrinsic carries, in the order
// it is checked.
type Extra struct {
	SpecVersion uint32
	GenesisHash crypto.Hash
	Era         Era
	Nonce       Nonce
	Weight      fee.Weight
	Tip         fee.Balance
}

// Extrinsic is a signed transaction. It must not be modified once built.
type Extrinsic struct {
	Signer    AccountID
	Signature Signature
	Extra     Extra
	Call      Call
}

type payload struct {
	Call  Call
	Extra Extra
}

// SignedPayload returns the bytes a signer signs for (call, extra). Payloads
// longer than 256 bytes are replaced by their blake2b-256 hash.
func SignedPayload(call Call, extra Extra) ([]byte, error) {
	b, err := scale.Marshal(payload{Call: call, Extra: extra})
	if err != nil {
		return nil, fmt.Errorf("encode signed payload: %w", err)
	}
	if len(b) > maxUnhashedPayload {
		h := crypto.HashData(b)
		return h[:], nil
	}
	return b, nil
}

// SignedPayload returns the bytes the extrinsic's signature covers.
func (x *Extrinsic) SignedPayload() ([]byte, error) {
	return SignedPayload(x.Call, x.Extra)
}

// Encode returns the length-prefixed wire form of the extrinsic.
func (x *Extrinsic) Encode() ([]byte, error) {
	body, err := scale.Marshal(*x)
	if err != nil {
		return nil, fmt.Errorf("encode extrinsic: %w", err)
	}
	inner := make([]byte, 0, 1+len(body))
	inner = append(inner, Version)
	inner = append(inner, body...)

	b, err := scale.Marshal(inner)
	if err != nil {
		return nil, fmt.Errorf("encode extrinsic: %w", err)
	}
	return b, nil
}

// Decode parses the wire form produced by Encode.
func Decode(b []byte) (*Extrinsic, error) {
	var inner []byte
	if err := scale.Unmarshal(b, &inner); err != nil {
		return nil, fmt.Errorf("decode extrinsic: %w", err)
	}
	if len(inner) == 0 {
		return nil, ErrEmptyExtrinsic
	}
	if inner[0] != Version {
		return nil, fmt.Errorf("%w: %#x", ErrUnsupportedVersion, inner[0])
	}
	x := &Extrinsic{}
	if err := scale.Unmarshal(inner[1:], x); err != nil {
		return nil, fmt.Errorf("decode extrinsic: %w", err)
	}
	return x, nil
}

// Len is the encoded length of the extrinsic in bytes.
func (x *Extrinsic) Len() (uint32, error) {
	b, err := x.Encode()
	if err != nil {
		return 0, err
	}
	return uint32(len(b)), nil
}

// Hash is the blake2b-256 hash of the encoded extrinsic.
func (x *Extrinsic) Hash() (crypto.Hash, error) {
	b, err := x.Encode()
	if err != nil {
		return crypto.Hash{}, err
	}
	return crypto.HashData(b), nil
}

// Tag identifies the (account, nonce) slot an extrinsic occupies.
type Tag struct {
	Account AccountID
	Nonce   Nonce
}
