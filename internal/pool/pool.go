// Package pool validates incoming extrinsics ahead of block building.
// Outcomes are provisional: they are computed against a snapshot and the
// block executive checks every extrinsic again when applying it.
package pool

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/store"
	"github.com/eigerco/txcore/internal/validation"
	"github.com/eigerco/txcore/pkg/db"
	"github.com/eigerco/txcore/pkg/log"
)

const DefaultConcurrency = 8

// Result is the provisional outcome for one extrinsic.
type Result struct {
	Extrinsic *extrinsic.Extrinsic
	Hash      crypto.Hash
	Length    uint32
	Valid     validation.ValidTransaction
	Err       error
}

func (r Result) Accepted() bool {
	return r.Err == nil
}

// View is a read-only state over a database snapshot.
type View struct {
	State    *validation.State
	snapshot db.Snapshot
}

// OpenView snapshots kv and exposes it as pipeline state for the block
// described by chain. Every mutation through the view fails, so only
// Pipeline.Validate may be used with it.
func OpenView(kv db.KVStore, chain validation.ChainInfo, usage validation.BlockUsage) (*View, error) {
	snapshot, err := kv.NewSnapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	accounts := store.NewAccountsView(snapshot)
	multiplier, err := accounts.Multiplier()
	if err != nil {
		_ = snapshot.Close()
		return nil, fmt.Errorf("read fee multiplier: %w", err)
	}
	return &View{
		State: &validation.State{
			Chain:      chain,
			Nonces:     accounts,
			Ledger:     accounts,
			Block:      &usage,
			Multiplier: multiplier,
		},
		snapshot: snapshot,
	}, nil
}

func (v *View) Close() error {
	return v.snapshot.Close()
}

// Prevalidate validates xts concurrently, at most limit at a time, and
// returns one result per extrinsic in input order. Rejections are reported in
// the results; the returned error is only set when ctx is cancelled.
func Prevalidate(ctx context.Context, pipeline *validation.Pipeline, state *validation.State, xts []*extrinsic.Extrinsic, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	results := make([]Result, len(xts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, xt := range xts {
		i, xt := i, xt
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = validate(pipeline, state, xt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accepted := 0
	for _, r := range results {
		if r.Accepted() {
			accepted++
		}
	}
	log.Pool.Debug().Int("total", len(xts)).Int("accepted", accepted).Msg("prevalidated extrinsics")
	return results, nil
}

func validate(pipeline *validation.Pipeline, state *validation.State, xt *extrinsic.Extrinsic) Result {
	r := Result{Extrinsic: xt}
	hash, err := xt.Hash()
	if err != nil {
		r.Err = err
		return r
	}
	length, err := xt.Len()
	if err != nil {
		r.Err = err
		return r
	}
	r.Hash, r.Length = hash, length
	r.Valid, r.Err = pipeline.Validate(state, xt, length)
	return r
}

// Ready returns the accepted results ordered by descending priority, ties
// keeping input order.
func Ready(results []Result) []Result {
	ready := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Accepted() {
			ready = append(ready, r)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Valid.Priority > ready[j].Valid.Priority
	})
	return ready
}
