package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"

	"github.com/eigerco/txcore/internal/builder"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/pool"
	"github.com/eigerco/txcore/internal/runtime"
	"github.com/eigerco/txcore/internal/store"
	"github.com/eigerco/txcore/internal/validation"
	"github.com/eigerco/txcore/pkg/db/pebble"
	"github.com/eigerco/txcore/pkg/log"
)

const (
	namespace     = "txcore"
	endowment     = 1_000 * fee.Coin
	authorSeedTag = 0xaa
)

var remark = extrinsic.Call{Module: 0, Function: 1, Args: []byte("simulate")}

func simulate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var kv *pebble.KVStore
	if cfg.Store.Path != "" {
		kv, err = pebble.NewKVStore(cfg.Store.Path)
	} else {
		kv, err = pebble.NewInMemoryKVStore()
	}
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	accounts := store.NewAccounts(kv)
	blocks := store.NewBlocks(kv)
	chain := runtime.NewChain(cfg.Runtime.SpecVersion, cfg.GenesisHash(), fee.Weight(cfg.Block.MaxWeight))

	registry := prometheus.NewRegistry()
	validationMetrics, err := validation.NewMetrics(namespace, registry)
	if err != nil {
		return err
	}
	runtimeMetrics, err := runtime.NewMetrics(namespace, registry)
	if err != nil {
		return err
	}

	params, err := cfg.PipelineParams()
	if err != nil {
		return err
	}
	pipeline := validation.Default(params).WithMetrics(validationMetrics)

	exec, err := runtime.NewExecutive(runtime.Config{
		Chain:       chain,
		Pipeline:    pipeline,
		Adjustment:  cfg.Adjustment(),
		Nonces:      accounts,
		Ledger:      accounts,
		Multipliers: accounts,
		Blocks:      blocks,
		Metrics:     runtimeMetrics,
	})
	if err != nil {
		return err
	}

	keyring := builder.NewKeyring()
	senders, err := endowSenders(keyring, accounts, c.Int("txs"))
	if err != nil {
		return err
	}
	author, err := keyring.AddSeed(seed(authorSeedTag))
	if err != nil {
		return err
	}

	next := extrinsic.BlockNumber(1)
	if latest, err := blocks.Latest(); err == nil {
		next = latest.Number + 1
	} else if !errors.Is(err, store.ErrBlockNotFound) {
		return err
	}

	b := &builder.Builder{Chain: chain, EraPeriod: cfg.Runtime.EraPeriod}
	weight := fee.Weight(c.Uint64("weight"))

	fmt.Printf("%-8s %-6s %-12s %-20s %s\n", "block", "txs", "fullness", "next multiplier", "fees")
	for i := 0; i < c.Int("blocks"); i++ {
		number := next + extrinsic.BlockNumber(i)
		if err := exec.InitializeBlock(number, &author); err != nil {
			return err
		}

		xts, err := buildBatch(b, keyring, accounts, senders, weight)
		if err != nil {
			return err
		}
		ready, err := prevalidate(kv, chain, pipeline, xts, cfg.Block.PrevalidationConcurrency)
		if err != nil {
			return err
		}
		for _, r := range ready {
			if _, err := exec.Apply(r.Extrinsic); err != nil {
				if errors.Is(err, runtime.ErrBlockAborted) {
					return err
				}
				log.Root.Debug().Err(err).Stringer("extrinsic", r.Hash).Msg("extrinsic not applied")
			}
		}

		record, err := exec.FinalizeBlock()
		if err != nil {
			return err
		}
		fmt.Printf("%-8d %-6d %-12s %-20s %d\n", record.Number, len(record.Extrinsics),
			percent(record.Fullness), record.Multiplier, record.Fees)
	}
	return nil
}

// prevalidate checks the batch against a snapshot and returns the accepted
// extrinsics, highest fee first.
func prevalidate(kv *pebble.KVStore, chain *runtime.Chain, pipeline *validation.Pipeline, xts []*extrinsic.Extrinsic, limit int) ([]pool.Result, error) {
	view, err := pool.OpenView(kv, chain, validation.BlockUsage{})
	if err != nil {
		return nil, err
	}
	defer view.Close()

	results, err := pool.Prevalidate(context.Background(), pipeline, view.State, xts, limit)
	if err != nil {
		return nil, err
	}
	return pool.Ready(results), nil
}

func endowSenders(keyring *builder.Keyring, accounts *store.Accounts, n int) ([]extrinsic.AccountID, error) {
	senders := make([]extrinsic.AccountID, 0, n)
	for i := 0; i < n; i++ {
		id, err := keyring.AddSeed(seed(byte(i)))
		if err != nil {
			return nil, err
		}
		balance, err := accounts.BalanceOf(id)
		if err != nil {
			return nil, err
		}
		if balance == 0 {
			if err := accounts.Endow(id, endowment); err != nil {
				return nil, err
			}
		}
		senders = append(senders, id)
	}
	return senders, nil
}

func buildBatch(b *builder.Builder, keyring *builder.Keyring, nonces validation.NonceStore, senders []extrinsic.AccountID, weight fee.Weight) ([]*extrinsic.Extrinsic, error) {
	xts := make([]*extrinsic.Extrinsic, 0, len(senders))
	for i, who := range senders {
		nonce, err := nonces.CurrentNonce(who)
		if err != nil {
			return nil, err
		}
		xt, err := b.Build(remark, who, nonce, keyring, builder.WithWeight(weight), builder.WithTip(fee.Balance(i)))
		if err != nil {
			return nil, err
		}
		xts = append(xts, xt)
	}
	return xts, nil
}

func seed(tag byte) []byte {
	s := make([]byte, 32)
	s[0] = tag
	s[31] = 0x5e
	return s
}

func percent(p fee.Perbill) string {
	return fmt.Sprintf("%d.%02d%%", p/10_000_000, p/100_000%100)
}
