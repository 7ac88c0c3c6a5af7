package validation

import (
	"github.com/eigerco/txcore/internal/balances"
	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/reward"
)

// ChainInfo exposes the chain constants and the current block number.
type ChainInfo interface {
	SpecVersion() uint32
	GenesisHash() crypto.Hash
	BlockNumber() extrinsic.BlockNumber
	MaxBlockWeight() fee.Weight
}

// NonceStore keeps the per-account transaction counter.
type NonceStore interface {
	CurrentNonce(who extrinsic.AccountID) (extrinsic.Nonce, error)
	IncrementNonce(who extrinsic.AccountID) error
}

// BlockUsage is what the extrinsics applied so far consumed of the block.
type BlockUsage struct {
	Weight fee.Weight
	Length uint64
	Gas    uint64
}

// Fullness is the consumed share of maxWeight.
func (u BlockUsage) Fullness(maxWeight fee.Weight) fee.Perbill {
	return fee.FullnessOf(u.Weight, maxWeight)
}

// State is everything the pipeline reads and, on Apply, mutates.
type State struct {
	Chain  ChainInfo
	Nonces NonceStore
	Ledger balances.Ledger
	// Block is updated by Apply; Validate only reads it. Nil means an empty
	// block.
	Block *BlockUsage
	// Multiplier is the fee multiplier in effect for the current block.
	Multiplier fee.Multiplier
	// Env is passed to fee beneficiaries.
	Env reward.Environment
}

func (s *State) usage() BlockUsage {
	if s.Block == nil {
		return BlockUsage{}
	}
	return *s.Block
}

// ValidTransaction describes an accepted extrinsic to a transaction pool.
type ValidTransaction struct {
	// Priority is the total fee; higher fees are included first.
	Priority uint64
	// Provides is the (signer, nonce) tag the extrinsic satisfies.
	Provides []extrinsic.Tag
	// Longevity is the number of blocks the extrinsic stays valid for.
	Longevity uint64
	Propagate bool
}

// AppliedEffects summarises what Apply changed.
type AppliedEffects struct {
	Hash    crypto.Hash
	Signer  extrinsic.AccountID
	Nonce   extrinsic.Nonce
	Fee     fee.Quote
	Payouts []reward.Payout
	Weight  fee.Weight
	Length  uint32
	Gas     uint64
}

// Burned is the part of the fee that went out of circulation.
func (e AppliedEffects) Burned() fee.Balance {
	var burned fee.Balance
	for _, p := range e.Payouts {
		if p.Burned {
			burned = burned.SaturatingAdd(p.Amount)
		}
	}
	return burned
}

// Context carries one extrinsic through the stages. Stages keep no per
// extrinsic state of their own, anything they need between Validate and
// Commit lives here.
type Context struct {
	State     *State
	Extrinsic *extrinsic.Extrinsic
	Length    uint32
	Hash      crypto.Hash

	Valid   ValidTransaction
	Effects AppliedEffects

	quote     fee.Quote
	imbalance *balances.Imbalance
}
