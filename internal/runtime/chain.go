package runtime

import (
	"sync/atomic"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/validation"
)

// Chain holds the runtime constants and tracks the block being built.
type Chain struct {
	specVersion    uint32
	genesisHash    crypto.Hash
	maxBlockWeight fee.Weight
	number         atomic.Uint64
}

var _ validation.ChainInfo = (*Chain)(nil)

func NewChain(specVersion uint32, genesis crypto.Hash, maxBlockWeight fee.Weight) *Chain {
	return &Chain{
		specVersion:    specVersion,
		genesisHash:    genesis,
		maxBlockWeight: maxBlockWeight,
	}
}

func (c *Chain) SpecVersion() uint32 {
	return c.specVersion
}

func (c *Chain) GenesisHash() crypto.Hash {
	return c.genesisHash
}

func (c *Chain) MaxBlockWeight() fee.Weight {
	return c.maxBlockWeight
}

// BlockNumber is the number of the block currently being built.
func (c *Chain) BlockNumber() extrinsic.BlockNumber {
	return extrinsic.BlockNumber(c.number.Load())
}

func (c *Chain) SetBlockNumber(n extrinsic.BlockNumber) {
	c.number.Store(uint64(n))
}
