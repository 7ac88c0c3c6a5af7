// Package ed25519 wraps crypto/ed25519 key handling with ZIP-215 compliant
// signature verification, which is what block validation must use so that
// every node agrees on the validity of edge-case signatures.
package ed25519

import (
	"crypto/ed25519"
	"errors"
	"io"

	"github.com/hdevalence/ed25519consensus"
)

type (
	PublicKey  = ed25519.PublicKey
	PrivateKey = ed25519.PrivateKey
)

const (
	PublicKeySize  = ed25519.PublicKeySize
	PrivateKeySize = ed25519.PrivateKeySize
	SignatureSize  = ed25519.SignatureSize
	SeedSize       = ed25519.SeedSize
)

var ErrInvalidSeed = errors.New("ed25519: invalid seed length")

// KeyPair holds a private key together with its public half
type KeyPair struct {
	Public  PublicKey
	Private PrivateKey
}

// GenerateKeyPair creates a fresh key pair from the given entropy source.
func GenerateKeyPair(rand io.Reader) (KeyPair, error) {
	pub, prv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Public: pub, Private: prv}, nil
}

// KeyPairFromSeed deterministically derives a key pair from a 32 byte seed.
func KeyPairFromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != SeedSize {
		return KeyPair{}, ErrInvalidSeed
	}
	prv := ed25519.NewKeyFromSeed(seed)
	return KeyPair{Public: prv.Public().(PublicKey), Private: prv}, nil
}

// Sign signs message with the pair's private key.
func (k KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(k.Private, message)
}

// Verify reports whether sig is a valid signature of message by publicKey.
// Malformed keys or signatures never verify.
func Verify(publicKey PublicKey, message, sig []byte) bool {
	if len(publicKey) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519consensus.Verify(publicKey, message, sig)
}
