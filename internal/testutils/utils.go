package testutils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/crypto/ed25519"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/pkg/db/pebble"
)

func RandomHash(t *testing.T) crypto.Hash {
	var hash crypto.Hash
	_, err := rand.Read(hash[:])
	require.NoError(t, err)
	return hash
}

func RandomAccount(t *testing.T) extrinsic.AccountID {
	var id extrinsic.AccountID
	_, err := rand.Read(id[:])
	require.NoError(t, err)
	return id
}

func RandomKeyPair(t *testing.T) ed25519.KeyPair {
	kp, err := ed25519.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)
	return kp
}

// KeyPairFromByte derives a deterministic key pair whose seed is b repeated.
func KeyPairFromByte(t *testing.T, b byte) ed25519.KeyPair {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	kp, err := ed25519.KeyPairFromSeed(seed)
	require.NoError(t, err)
	return kp
}

func AccountOf(t *testing.T, kp ed25519.KeyPair) extrinsic.AccountID {
	id, err := extrinsic.AccountFromPublicKey(kp.Public)
	require.NoError(t, err)
	return id
}

// NewKVStore opens an in-memory store closed at the end of the test.
func NewKVStore(t *testing.T) *pebble.KVStore {
	kv, err := pebble.NewInMemoryKVStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}
