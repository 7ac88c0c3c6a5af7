package builder

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eigerco/txcore/internal/crypto/ed25519"
	"github.com/eigerco/txcore/internal/extrinsic"
)

var ErrUnknownAccount = errors.New("no key for account")

// Keyring is an in-memory Signer holding ed25519 key pairs.
type Keyring struct {
	mu   sync.RWMutex
	keys map[extrinsic.AccountID]ed25519.KeyPair
}

func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[extrinsic.AccountID]ed25519.KeyPair)}
}

// Add stores kp and returns the account it signs for.
func (k *Keyring) Add(kp ed25519.KeyPair) (extrinsic.AccountID, error) {
	id, err := extrinsic.AccountFromPublicKey(kp.Public)
	if err != nil {
		return extrinsic.AccountID{}, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[id] = kp
	return id, nil
}

// AddSeed derives a key pair from a 32 byte seed and stores it.
func (k *Keyring) AddSeed(seed []byte) (extrinsic.AccountID, error) {
	kp, err := ed25519.KeyPairFromSeed(seed)
	if err != nil {
		return extrinsic.AccountID{}, err
	}
	return k.Add(kp)
}

func (k *Keyring) Sign(payload []byte, who extrinsic.AccountID) ([]byte, error) {
	k.mu.RLock()
	kp, ok := k.keys[who]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, who)
	}
	return kp.Sign(payload), nil
}
