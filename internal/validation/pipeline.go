package validation

import (
	"errors"
	"fmt"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/reward"
	"github.com/eigerco/txcore/pkg/log"
)

// Params configures the default stages.
type Params struct {
	Calculator         fee.Calculator
	Splitter           reward.Splitter
	AvailableRatio     fee.Perbill
	MaxBlockLength     uint64
	BlockGasLimit      uint64
	SignatureCacheSize int
}

// Pipeline runs an ordered list of stages over an extrinsic. The stages are
// shared by every call, so a pipeline may validate concurrently as long as
// the states it is given are safe for concurrent reads.
type Pipeline struct {
	stages  []Stage
	metrics *Metrics
}

// New creates a pipeline running stages in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Default creates the pipeline every signed extrinsic goes through:
// signature, version, genesis, mortality, nonce, weight, fee and gas.
func Default(p Params) *Pipeline {
	return New(
		NewSignatureCheck(p.SignatureCacheSize),
		VersionCheck{},
		GenesisCheck{},
		MortalityCheck{},
		NonceCheck{},
		WeightCheck{AvailableRatio: p.AvailableRatio, MaxBlockLength: p.MaxBlockLength},
		FeeCharge{Calculator: p.Calculator, Splitter: p.Splitter},
		GasLimitCheck{BlockGasLimit: p.BlockGasLimit},
	)
}

// Append adds stages after the existing ones.
func (p *Pipeline) Append(stages ...Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

func (p *Pipeline) WithMetrics(m *Metrics) *Pipeline {
	p.metrics = m
	return p
}

func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Validate runs every stage without changing state.
func (p *Pipeline) Validate(state *State, xt *extrinsic.Extrinsic, length uint32) (ValidTransaction, error) {
	ctx, err := p.check(state, xt, length)
	if err != nil {
		return ValidTransaction{}, err
	}
	return ctx.Valid, nil
}

// Apply validates the extrinsic and, when every stage accepts it, prepares
// and then commits the staged changes in stage order. Nothing is changed when
// a stage rejects, including a refusal by the first Prepare. A failure after
// the first change leaves the state inconsistent and is reported as
// ErrInternalInconsistency.
func (p *Pipeline) Apply(state *State, xt *extrinsic.Extrinsic, length uint32) (AppliedEffects, error) {
	ctx, err := p.check(state, xt, length)
	if err != nil {
		return AppliedEffects{}, err
	}

	changed := false
	for _, s := range p.stages {
		pr, ok := s.(Preparer)
		if !ok {
			continue
		}
		if err := pr.Prepare(ctx); err != nil {
			if !changed {
				return AppliedEffects{}, p.rejected(s, ctx.Hash, err)
			}
			log.Runtime.Error().Err(err).Str("stage", s.Name()).
				Stringer("extrinsic", ctx.Hash).Msg("prepare failed after an earlier change")
			return AppliedEffects{}, fmt.Errorf("%w: %s: %w", ErrInternalInconsistency, s.Name(), err)
		}
		changed = true
	}

	for _, s := range p.stages {
		c, ok := s.(Committer)
		if !ok {
			continue
		}
		if err := c.Commit(ctx); err != nil {
			log.Runtime.Error().Err(err).Str("stage", s.Name()).
				Stringer("extrinsic", ctx.Hash).Msg("commit failed after validation")
			return AppliedEffects{}, fmt.Errorf("%w: %s: %w", ErrInternalInconsistency, s.Name(), err)
		}
	}

	ctx.Effects.Hash = ctx.Hash
	ctx.Effects.Signer = xt.Signer
	p.metrics.appliedFee(ctx.Effects.Fee.Total, ctx.Effects.Burned())
	return ctx.Effects, nil
}

func (p *Pipeline) check(state *State, xt *extrinsic.Extrinsic, length uint32) (*Context, error) {
	if state == nil || xt == nil {
		return nil, errors.New("nil state or extrinsic")
	}
	hash, err := xt.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash extrinsic: %w", err)
	}

	ctx := &Context{
		State:     state,
		Extrinsic: xt,
		Length:    length,
		Hash:      hash,
		Valid:     ValidTransaction{Propagate: true},
	}
	for _, s := range p.stages {
		if err := s.Validate(ctx); err != nil {
			return nil, p.rejected(s, hash, err)
		}
	}
	return ctx, nil
}

func (p *Pipeline) rejected(s Stage, hash crypto.Hash, err error) error {
	var r *Rejection
	if errors.As(err, &r) {
		r.Stage = s.Name()
		p.metrics.rejected(r.Reason)
	}
	log.Runtime.Debug().Err(err).Str("stage", s.Name()).
		Stringer("extrinsic", hash).Msg("extrinsic rejected")
	return err
}
