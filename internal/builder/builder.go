package builder

import (
	"errors"
	"fmt"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
)

// DefaultEraPeriod is the number of blocks a built extrinsic stays valid.
const DefaultEraPeriod uint64 = 1 << 8

var ErrSigningFailed = errors.New("signing failed")

// Chain is what the builder needs to know about the chain it signs for.
type Chain interface {
	SpecVersion() uint32
	GenesisHash() crypto.Hash
	BlockNumber() extrinsic.BlockNumber
}

// Signer signs payloads on behalf of an account.
type Signer interface {
	Sign(payload []byte, who extrinsic.AccountID) ([]byte, error)
}

// Builder assembles signed extrinsics for the current state of Chain.
type Builder struct {
	Chain     Chain
	EraPeriod uint64
}

func New(chain Chain) *Builder {
	return &Builder{Chain: chain, EraPeriod: DefaultEraPeriod}
}

type options struct {
	tip      fee.Balance
	weight   fee.Weight
	immortal bool
}

type Option func(*options)

func WithTip(tip fee.Balance) Option {
	return func(o *options) { o.tip = tip }
}

// WithWeight declares the weight the call will consume.
func WithWeight(w fee.Weight) Option {
	return func(o *options) { o.weight = w }
}

// Immortal builds an extrinsic that never expires.
func Immortal() Option {
	return func(o *options) { o.immortal = true }
}

// Build signs call as who with the given nonce. The extrinsic is mortal,
// born at the current block and valid for EraPeriod blocks. Signer errors
// are wrapped in ErrSigningFailed and not retried.
func (b *Builder) Build(call extrinsic.Call, who extrinsic.AccountID, nonce extrinsic.Nonce, signer Signer, opts ...Option) (*extrinsic.Extrinsic, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	period := b.EraPeriod
	if period == 0 {
		period = DefaultEraPeriod
	}
	era := extrinsic.MortalEra(period, b.Chain.BlockNumber())
	if o.immortal {
		era = extrinsic.ImmortalEra
	}

	extra := extrinsic.Extra{
		SpecVersion: b.Chain.SpecVersion(),
		GenesisHash: b.Chain.GenesisHash(),
		Era:         era,
		Nonce:       nonce,
		Weight:      o.weight,
		Tip:         o.tip,
	}
	payload, err := extrinsic.SignedPayload(call, extra)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(payload, who)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	if len(sig) != crypto.Ed25519SignatureSize {
		return nil, fmt.Errorf("%w: signature is %d bytes", ErrSigningFailed, len(sig))
	}

	xt := &extrinsic.Extrinsic{
		Signer: who,
		Extra:  extra,
		Call:   call,
	}
	copy(xt.Signature[:], sig)
	return xt, nil
}
