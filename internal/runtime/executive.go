package runtime

import (
	"errors"
	"fmt"
	"math"

	"github.com/eigerco/txcore/internal/balances"
	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/reward"
	"github.com/eigerco/txcore/internal/store"
	"github.com/eigerco/txcore/internal/validation"
	"github.com/eigerco/txcore/pkg/log"
)

var (
	ErrNoBlock               = errors.New("no block initialized")
	ErrBlockInProgress       = errors.New("previous block not finalized")
	ErrBlockAlreadyFinalized = errors.New("block already finalized")
	ErrBlockAborted          = errors.New("block aborted")
)

// MultiplierStore persists the fee multiplier between blocks.
type MultiplierStore interface {
	Multiplier() (fee.Multiplier, error)
	SetMultiplier(fee.Multiplier) error
}

// BlockStore records finalized blocks.
type BlockStore interface {
	PutBlock(store.BlockRecord) error
}

// Config wires an Executive to its collaborators. Blocks and Metrics are
// optional.
type Config struct {
	Chain       *Chain
	Pipeline    *validation.Pipeline
	Adjustment  fee.TargetedFeeAdjustment
	Nonces      validation.NonceStore
	Ledger      balances.Ledger
	Multipliers MultiplierStore
	Blocks      BlockStore
	Metrics     *Metrics
}

type block struct {
	number     extrinsic.BlockNumber
	author     *extrinsic.AccountID
	usage      validation.BlockUsage
	state      *validation.State
	fees       fee.Balance
	burned     fee.Balance
	extrinsics []crypto.Hash
	finalized  bool
}

// Executive drives the block lifecycle: InitializeBlock, any number of
// ApplyExtrinsic calls, then FinalizeBlock. It is not safe for concurrent
// use.
type Executive struct {
	cfg     Config
	current *block
	aborted bool
}

func NewExecutive(cfg Config) (*Executive, error) {
	switch {
	case cfg.Chain == nil:
		return nil, errors.New("executive: chain is required")
	case cfg.Pipeline == nil:
		return nil, errors.New("executive: pipeline is required")
	case cfg.Nonces == nil || cfg.Ledger == nil || cfg.Multipliers == nil:
		return nil, errors.New("executive: nonce, ledger and multiplier stores are required")
	}
	return &Executive{cfg: cfg}, nil
}

// InitializeBlock opens block number, authored by author when known. The fee
// multiplier for the whole block is read here.
func (e *Executive) InitializeBlock(number extrinsic.BlockNumber, author *extrinsic.AccountID) error {
	if e.aborted {
		return ErrBlockAborted
	}
	if e.current != nil && !e.current.finalized {
		return fmt.Errorf("%w: block %d", ErrBlockInProgress, e.current.number)
	}

	multiplier, err := e.cfg.Multipliers.Multiplier()
	if err != nil {
		return fmt.Errorf("read fee multiplier: %w", err)
	}
	e.cfg.Chain.SetBlockNumber(number)

	b := &block{number: number, author: author}
	b.state = &validation.State{
		Chain:      e.cfg.Chain,
		Nonces:     e.cfg.Nonces,
		Ledger:     e.cfg.Ledger,
		Block:      &b.usage,
		Multiplier: multiplier,
		Env:        reward.Environment{Author: author},
	}
	e.current = b

	log.Runtime.Debug().Uint64("block", uint64(number)).Stringer("multiplier", multiplier).Msg("block initialized")
	return nil
}

// ApplyExtrinsic decodes and applies one extrinsic. Its length is the size of
// encoded. Rejections leave the block open; an internal inconsistency aborts
// it and every later call fails with ErrBlockAborted.
func (e *Executive) ApplyExtrinsic(encoded []byte) (validation.AppliedEffects, error) {
	b, err := e.open()
	if err != nil {
		return validation.AppliedEffects{}, err
	}
	if uint64(len(encoded)) > math.MaxUint32 {
		return validation.AppliedEffects{}, reject(validation.ExhaustsResources, "extrinsic of %d bytes", len(encoded))
	}
	xt, err := extrinsic.Decode(encoded)
	if err != nil {
		return validation.AppliedEffects{}, reject(validation.BadFormat, "%w", err)
	}

	effects, err := e.cfg.Pipeline.Apply(b.state, xt, uint32(len(encoded)))
	if errors.Is(err, validation.ErrInternalInconsistency) {
		e.aborted = true
		log.Runtime.Error().Err(err).Uint64("block", uint64(b.number)).Msg("aborting block")
		return validation.AppliedEffects{}, fmt.Errorf("%w: %w", ErrBlockAborted, err)
	}
	if err != nil {
		return validation.AppliedEffects{}, err
	}

	b.fees = b.fees.SaturatingAdd(effects.Fee.Total)
	b.burned = b.burned.SaturatingAdd(effects.Burned())
	b.extrinsics = append(b.extrinsics, effects.Hash)
	return effects, nil
}

// Apply encodes xt and applies it.
func (e *Executive) Apply(xt *extrinsic.Extrinsic) (validation.AppliedEffects, error) {
	encoded, err := xt.Encode()
	if err != nil {
		return validation.AppliedEffects{}, err
	}
	return e.ApplyExtrinsic(encoded)
}

// Validate checks xt against the open block without changing anything.
func (e *Executive) Validate(xt *extrinsic.Extrinsic) (validation.ValidTransaction, error) {
	b, err := e.open()
	if err != nil {
		return validation.ValidTransaction{}, err
	}
	length, err := xt.Len()
	if err != nil {
		return validation.ValidTransaction{}, err
	}
	return e.cfg.Pipeline.Validate(b.state, xt, length)
}

// FinalizeBlock closes the block, adjusts the fee multiplier once from the
// block's fullness and persists it for the next block.
func (e *Executive) FinalizeBlock() (store.BlockRecord, error) {
	b, err := e.open()
	if err != nil {
		return store.BlockRecord{}, err
	}

	fullness := b.usage.Fullness(e.cfg.Chain.MaxBlockWeight())
	next, err := e.AdjustMultiplier(b.state.Multiplier, fullness)
	if err != nil {
		return store.BlockRecord{}, err
	}
	b.finalized = true

	record := store.BlockRecord{
		Number:     b.number,
		Weight:     b.usage.Weight,
		Length:     uint32(min(b.usage.Length, math.MaxUint32)),
		Fullness:   fullness,
		Multiplier: next,
		Fees:       b.fees,
		Burned:     b.burned,
		Extrinsics: b.extrinsics,
	}
	if b.author != nil {
		record.HasAuthor = true
		record.Author = *b.author
	}
	if e.cfg.Blocks != nil {
		if err := e.cfg.Blocks.PutBlock(record); err != nil {
			return record, fmt.Errorf("record block %d: %w", b.number, err)
		}
	}

	e.cfg.Metrics.blockFinalized(fullness, next)
	log.Runtime.Info().
		Uint64("block", uint64(b.number)).
		Int("extrinsics", len(b.extrinsics)).
		Uint32("fullness_ppb", uint32(fullness)).
		Stringer("multiplier", next).
		Uint64("fees", uint64(b.fees)).
		Msg("block finalized")
	return record, nil
}

// AdjustMultiplier computes the multiplier following a block of the given
// fullness and stores it.
func (e *Executive) AdjustMultiplier(prev fee.Multiplier, fullness fee.Perbill) (fee.Multiplier, error) {
	next := e.cfg.Adjustment.Next(prev, fullness)
	if err := e.cfg.Multipliers.SetMultiplier(next); err != nil {
		return 0, fmt.Errorf("store fee multiplier: %w", err)
	}
	return next, nil
}

// Multiplier is the fee multiplier of the open block.
func (e *Executive) Multiplier() (fee.Multiplier, error) {
	b, err := e.open()
	if err != nil {
		return 0, err
	}
	return b.state.Multiplier, nil
}

// Usage is what the open block consumed so far.
func (e *Executive) Usage() validation.BlockUsage {
	if e.current == nil {
		return validation.BlockUsage{}
	}
	return e.current.usage
}

func (e *Executive) open() (*block, error) {
	switch {
	case e.aborted:
		return nil, ErrBlockAborted
	case e.current == nil:
		return nil, ErrNoBlock
	case e.current.finalized:
		return nil, ErrBlockAlreadyFinalized
	}
	return e.current, nil
}

func reject(reason validation.Reason, format string, args ...any) error {
	return &validation.Rejection{Stage: "runtime", Reason: reason, Err: fmt.Errorf(format, args...)}
}
