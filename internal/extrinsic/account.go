package extrinsic

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/crypto/ed25519"
)

// DefaultSS58Prefix is the generic substrate network identifier
const DefaultSS58Prefix uint16 = 42

const maxSS58Prefix uint16 = 16383

var (
	ErrInvalidAddress     = errors.New("invalid ss58 address")
	ErrBadChecksum        = errors.New("invalid ss58 checksum")
	ErrUnsupportedPrefix  = errors.New("unsupported ss58 prefix")
	ErrInvalidAccountSize = errors.New("invalid account id size")
)

var ss58Context = []byte("SS58PRE")

// AccountID identifies an account by its ed25519 public key.
type AccountID [crypto.Ed25519PublicSize]byte

// AccountFromPublicKey copies an ed25519 public key into an AccountID.
func AccountFromPublicKey(pk ed25519.PublicKey) (AccountID, error) {
	if len(pk) != ed25519.PublicKeySize {
		return AccountID{}, ErrInvalidAccountSize
	}
	return AccountID(pk), nil
}

// PublicKey returns the account's ed25519 public key.
func (a AccountID) PublicKey() ed25519.PublicKey {
	return a[:]
}

// String renders the account with the default network prefix.
func (a AccountID) String() string {
	s, _ := a.SS58(DefaultSS58Prefix)
	return s
}

// SS58 encodes the account for the given network prefix:
// base58(prefix || account || blake2b-512("SS58PRE" || prefix || account)[:2])
func (a AccountID) SS58(prefix uint16) (string, error) {
	var data []byte
	switch {
	case prefix < 64:
		data = []byte{byte(prefix)}
	case prefix <= maxSS58Prefix:
		first := byte((prefix&0b1111_1100)>>2) | 0b0100_0000
		second := byte(prefix>>8) | byte((prefix&0b11)<<6)
		data = []byte{first, second}
	default:
		return "", ErrUnsupportedPrefix
	}
	data = append(data, a[:]...)
	sum := ss58Checksum(data)
	return base58.Encode(append(data, sum[:2]...)), nil
}

// AccountFromSS58 decodes an SS58 address, returning the account and its
// network prefix.
func AccountFromSS58(s string) (AccountID, uint16, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return AccountID{}, 0, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) < 1 {
		return AccountID{}, 0, ErrInvalidAddress
	}

	var (
		prefixLen int
		prefix    uint16
	)
	switch {
	case raw[0] < 64:
		prefixLen, prefix = 1, uint16(raw[0])
	case raw[0] < 128:
		if len(raw) < 2 {
			return AccountID{}, 0, ErrInvalidAddress
		}
		lower := (raw[0] << 2) | (raw[1] >> 6)
		upper := raw[1] & 0b0011_1111
		prefixLen, prefix = 2, uint16(lower)|uint16(upper)<<8
	default:
		return AccountID{}, 0, ErrUnsupportedPrefix
	}

	if len(raw) != prefixLen+len(AccountID{})+2 {
		return AccountID{}, 0, ErrInvalidAddress
	}
	body := raw[:len(raw)-2]
	sum := ss58Checksum(body)
	if !bytes.Equal(sum[:2], raw[len(raw)-2:]) {
		return AccountID{}, 0, ErrBadChecksum
	}

	var id AccountID
	copy(id[:], body[prefixLen:])
	return id, prefix, nil
}

func ss58Checksum(data []byte) [64]byte {
	buf := make([]byte, 0, len(ss58Context)+len(data))
	buf = append(buf, ss58Context...)
	buf = append(buf, data...)
	return crypto.HashData512(buf)
}
