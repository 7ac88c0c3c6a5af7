package builder

import (
	"errors"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/crypto/ed25519"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/reward"
	"github.com/eigerco/txcore/internal/store"
	"github.com/eigerco/txcore/internal/testutils"
	"github.com/eigerco/txcore/internal/validation"
)

var genesis = crypto.HashData([]byte("builder"))

type chain struct{}

func (chain) SpecVersion() uint32                { return 84 }
func (chain) GenesisHash() crypto.Hash           { return genesis }
func (chain) BlockNumber() extrinsic.BlockNumber { return 100 }
func (chain) MaxBlockWeight() fee.Weight         { return 1_000_000_000 }

var call = extrinsic.Call{Module: 5, Function: 2, Args: []byte{0xde, 0xad}}

func TestBuildSetsExtra(t *testing.T) {
	keyring := NewKeyring()
	who, err := keyring.Add(testutils.KeyPairFromByte(t, 3))
	qt.Assert(t, qt.IsNil(err))

	xt, err := New(chain{}).Build(call, who, 7, keyring, WithTip(11), WithWeight(1_000))
	qt.Assert(t, qt.IsNil(err))

	qt.Check(t, qt.Equals(xt.Signer, who))
	qt.Check(t, qt.DeepEquals(xt.Call, call))
	qt.Check(t, qt.Equals(xt.Extra, extrinsic.Extra{
		SpecVersion: 84,
		GenesisHash: genesis,
		Era:         extrinsic.Era{Birth: 100, Period: DefaultEraPeriod},
		Nonce:       7,
		Weight:      1_000,
		Tip:         11,
	}))

	payload, err := xt.SignedPayload()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.IsTrue(ed25519.Verify(who.PublicKey(), payload, xt.Signature[:])))
}

func TestBuildImmortal(t *testing.T) {
	keyring := NewKeyring()
	who, err := keyring.Add(testutils.KeyPairFromByte(t, 3))
	qt.Assert(t, qt.IsNil(err))

	xt, err := New(chain{}).Build(call, who, 0, keyring, Immortal())
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.IsTrue(xt.Extra.Era.IsImmortal()))
}

func TestBuiltExtrinsicIsAccepted(t *testing.T) {
	accounts := store.NewAccounts(testutils.NewKVStore(t))
	keyring := NewKeyring()
	who, err := keyring.Add(testutils.KeyPairFromByte(t, 4))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(accounts.Endow(who, fee.Coin)))

	pipeline := validation.Default(validation.Params{
		Calculator:     fee.Calculator{BaseFee: fee.Micro, ByteFee: 10 * fee.Micro},
		Splitter:       reward.SplitTwoWays(4, reward.Account("treasury", extrinsic.AccountID{1}), 1, reward.Author()),
		AvailableRatio: fee.PerbillFromPercent(75),
		MaxBlockLength: 5 * 1024 * 1024,
	})
	state := &validation.State{
		Chain:      chain{},
		Nonces:     accounts,
		Ledger:     accounts,
		Multiplier: fee.One,
	}

	xt, err := New(chain{}).Build(call, who, 0, keyring, WithWeight(10))
	qt.Assert(t, qt.IsNil(err))
	length, err := xt.Len()
	qt.Assert(t, qt.IsNil(err))

	valid, err := pipeline.Validate(state, xt, length)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(valid.Priority, uint64(fee.Micro+fee.Balance(length)*10*fee.Micro)))

	// a round trip through the wire form is accepted too
	encoded, err := xt.Encode()
	qt.Assert(t, qt.IsNil(err))
	decoded, err := extrinsic.Decode(encoded)
	qt.Assert(t, qt.IsNil(err))
	_, err = pipeline.Apply(state, decoded, uint32(len(encoded)))
	qt.Assert(t, qt.IsNil(err))
}

type failingSigner struct{ calls int }

func (f *failingSigner) Sign([]byte, extrinsic.AccountID) ([]byte, error) {
	f.calls++
	return nil, errors.New("hardware wallet unplugged")
}

func TestSigningFailure(t *testing.T) {
	signer := &failingSigner{}
	_, err := New(chain{}).Build(call, extrinsic.AccountID{9}, 0, signer)
	qt.Check(t, qt.ErrorIs(err, ErrSigningFailed))
	qt.Check(t, qt.Equals(signer.calls, 1))
}

func TestUnknownAccount(t *testing.T) {
	_, err := New(chain{}).Build(call, extrinsic.AccountID{9}, 0, NewKeyring())
	qt.Check(t, qt.ErrorIs(err, ErrSigningFailed))
	qt.Check(t, qt.ErrorIs(err, ErrUnknownAccount))
}

type shortSigner struct{}

func (shortSigner) Sign([]byte, extrinsic.AccountID) ([]byte, error) {
	return []byte{1, 2, 3}, nil
}

func TestMalformedSignature(t *testing.T) {
	_, err := New(chain{}).Build(call, extrinsic.AccountID{9}, 0, shortSigner{})
	qt.Check(t, qt.ErrorIs(err, ErrSigningFailed))
}
