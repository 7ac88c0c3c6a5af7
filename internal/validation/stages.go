package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/eigerco/txcore/internal/balances"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/reward"
	"github.com/eigerco/txcore/internal/safemath"
)

// Stage is one check of the pipeline. Validate must not mutate state.
type Stage interface {
	Name() string
	Validate(ctx *Context) error
}

// Preparer is implemented by stages whose state change may still be refused
// after validation. Every Prepare runs before any Commit.
type Preparer interface {
	Prepare(ctx *Context) error
}

// Committer is implemented by stages that change state once the whole
// pipeline accepted the extrinsic. Commit must not fail on a state that
// passed Validate.
type Committer interface {
	Commit(ctx *Context) error
}

// VersionCheck rejects extrinsics signed for another runtime version.
type VersionCheck struct{}

func (VersionCheck) Name() string { return "version" }

func (VersionCheck) Validate(ctx *Context) error {
	want := ctx.State.Chain.SpecVersion()
	if got := ctx.Extrinsic.Extra.SpecVersion; got != want {
		return reject(StaleVersion, "spec version %d, runtime is at %d", got, want)
	}
	return nil
}

// GenesisCheck rejects extrinsics signed for another chain.
type GenesisCheck struct{}

func (GenesisCheck) Name() string { return "genesis" }

func (GenesisCheck) Validate(ctx *Context) error {
	want := ctx.State.Chain.GenesisHash()
	if got := ctx.Extrinsic.Extra.GenesisHash; got != want {
		return reject(BadGenesis, "genesis %s, expected %s", got, want)
	}
	return nil
}

// MortalityCheck rejects extrinsics whose era does not contain the current
// block.
type MortalityCheck struct{}

func (MortalityCheck) Name() string { return "mortality" }

func (MortalityCheck) Validate(ctx *Context) error {
	era := ctx.Extrinsic.Extra.Era
	current := ctx.State.Chain.BlockNumber()
	switch {
	case era.IsFuture(current):
		return reject(FutureBirthBlock, "era born at %d, current block %d", era.Birth, current)
	case era.IsStale(current):
		return reject(AncientBirthBlock, "era died at %d, current block %d", era.Death(), current)
	}
	ctx.Valid.Longevity = era.Longevity(current)
	return nil
}

// NonceCheck requires the extrinsic nonce to be exactly the signer's next
// nonce and increments it on commit.
type NonceCheck struct{}

func (NonceCheck) Name() string { return "nonce" }

func (NonceCheck) Validate(ctx *Context) error {
	xt := ctx.Extrinsic
	current, err := ctx.State.Nonces.CurrentNonce(xt.Signer)
	if err != nil {
		return ledgerFailure(fmt.Errorf("read nonce: %w", err))
	}
	switch {
	case xt.Extra.Nonce < current:
		return reject(NonceTooLow, "nonce %d, account is at %d", xt.Extra.Nonce, current)
	case xt.Extra.Nonce > current:
		return reject(NonceTooHigh, "nonce %d, account is at %d", xt.Extra.Nonce, current)
	case current == math.MaxUint32:
		return reject(NonceExhausted, "nonce %d cannot be incremented", current)
	}
	ctx.Valid.Provides = append(ctx.Valid.Provides, extrinsic.Tag{Account: xt.Signer, Nonce: xt.Extra.Nonce})
	return nil
}

func (NonceCheck) Commit(ctx *Context) error {
	if err := ctx.State.Nonces.IncrementNonce(ctx.Extrinsic.Signer); err != nil {
		return fmt.Errorf("increment nonce: %w", err)
	}
	ctx.Effects.Nonce = ctx.Extrinsic.Extra.Nonce
	return nil
}

// WeightCheck keeps the block within its weight and length limits. Normal
// calls may only use AvailableRatio of each limit.
type WeightCheck struct {
	AvailableRatio fee.Perbill
	MaxBlockLength uint64
}

func (WeightCheck) Name() string { return "weight" }

func (c WeightCheck) limits(ctx *Context) (fee.Weight, uint64) {
	maxWeight := ctx.State.Chain.MaxBlockWeight()
	if ctx.Extrinsic.Call.Class == extrinsic.Operational {
		return maxWeight, c.MaxBlockLength
	}
	return fee.Weight(c.AvailableRatio.Mul(uint64(maxWeight))), c.AvailableRatio.Mul(c.MaxBlockLength)
}

func (c WeightCheck) Validate(ctx *Context) error {
	weightLimit, lengthLimit := c.limits(ctx)
	usage := ctx.State.usage()

	weight, ok := safemath.Add64(uint64(usage.Weight), uint64(ctx.Extrinsic.Extra.Weight))
	if !ok || fee.Weight(weight) > weightLimit {
		return reject(ExhaustsResources, "weight %d over the %s limit %d",
			ctx.Extrinsic.Extra.Weight, ctx.Extrinsic.Call.Class, weightLimit)
	}
	length, ok := safemath.Add64(usage.Length, uint64(ctx.Length))
	if !ok || length > lengthLimit {
		return reject(ExhaustsResources, "length %d over the %s limit %d",
			ctx.Length, ctx.Extrinsic.Call.Class, lengthLimit)
	}
	return nil
}

func (WeightCheck) Commit(ctx *Context) error {
	if ctx.State.Block != nil {
		ctx.State.Block.Weight = ctx.State.Block.Weight.SaturatingAdd(ctx.Extrinsic.Extra.Weight)
		ctx.State.Block.Length = safemath.SaturatingAdd64(ctx.State.Block.Length, uint64(ctx.Length))
	}
	ctx.Effects.Weight = ctx.Extrinsic.Extra.Weight
	ctx.Effects.Length = ctx.Length
	return nil
}

// FeeCharge makes the signer pay for the extrinsic and hands the fee to the
// reward splitter. The withdrawal happens in Prepare, so a ledger refusing it
// leaves nonce and block usage untouched.
type FeeCharge struct {
	Calculator fee.Calculator
	Splitter   reward.Splitter
}

func (FeeCharge) Name() string { return "fee" }

func (c FeeCharge) Validate(ctx *Context) error {
	xt := ctx.Extrinsic
	ctx.quote = c.Calculator.Quote(ctx.Length, xt.Extra.Weight, xt.Extra.Tip, ctx.State.Multiplier)

	balance, err := ctx.State.Ledger.BalanceOf(xt.Signer)
	if err != nil {
		return ledgerFailure(fmt.Errorf("read balance: %w", err))
	}
	if balance < ctx.quote.Total {
		return reject(InsufficientBalance, "fee %d, balance %d", ctx.quote.Total, balance)
	}
	ctx.Valid.Priority = uint64(ctx.quote.Total)
	return nil
}

func (FeeCharge) Prepare(ctx *Context) error {
	imb, err := ctx.State.Ledger.Withdraw(ctx.Extrinsic.Signer, ctx.quote.Total)
	switch {
	case errors.Is(err, balances.ErrInsufficientBalance):
		return reject(InsufficientBalance, "withdraw fee %d: %w", ctx.quote.Total, err)
	case err != nil:
		return ledgerFailure(fmt.Errorf("withdraw fee: %w", err))
	}
	ctx.imbalance = imb
	return nil
}

func (c FeeCharge) Commit(ctx *Context) error {
	if ctx.imbalance == nil {
		return errors.New("fee was not withdrawn")
	}
	payouts, err := c.Splitter.Distribute(ctx.State.Ledger, ctx.imbalance, ctx.State.Env)
	if err != nil {
		return fmt.Errorf("distribute fee: %w", err)
	}
	ctx.Effects.Fee = ctx.quote
	ctx.Effects.Payouts = payouts
	return nil
}

// GasLimitCheck keeps the contract gas of the block within BlockGasLimit.
type GasLimitCheck struct {
	BlockGasLimit uint64
}

func (GasLimitCheck) Name() string { return "gas" }

func (c GasLimitCheck) Validate(ctx *Context) error {
	limit := ctx.Extrinsic.Call.GasLimit
	if limit == 0 {
		return nil
	}
	used := ctx.State.usage().Gas
	total, ok := safemath.Add64(used, limit)
	if !ok || total > c.BlockGasLimit {
		return reject(GasLimitExceeded, "gas limit %d, block has %d left",
			limit, safemath.SaturatingSub64(c.BlockGasLimit, used))
	}
	return nil
}

func (GasLimitCheck) Commit(ctx *Context) error {
	if ctx.State.Block != nil {
		ctx.State.Block.Gas = safemath.SaturatingAdd64(ctx.State.Block.Gas, ctx.Extrinsic.Call.GasLimit)
	}
	ctx.Effects.Gas = ctx.Extrinsic.Call.GasLimit
	return nil
}
