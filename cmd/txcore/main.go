package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/eigerco/txcore/internal/config"
	"github.com/eigerco/txcore/internal/crypto/ed25519"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/pkg/log"
)

var configFlag = cli.StringFlag{
	Name:  "config, c",
	Usage: "path to a YAML config file, defaults are used when empty",
}

func main() {
	app := cli.NewApp()
	app.Name = "txcore"
	app.Usage = "transaction fee and validation tooling"
	app.Commands = []cli.Command{
		{
			Name:   "keygen",
			Usage:  "generate an ed25519 account",
			Action: keygen,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "seed", Usage: "hex encoded 32 byte seed, random when empty"},
				cli.UintFlag{Name: "prefix", Usage: "SS58 network prefix", Value: uint(extrinsic.DefaultSS58Prefix)},
			},
		},
		{
			Name:   "quote",
			Usage:  "compute the fee of a transaction",
			Action: quote,
			Flags: []cli.Flag{
				configFlag,
				cli.Uint64Flag{Name: "length", Usage: "encoded length in bytes"},
				cli.Uint64Flag{Name: "weight", Usage: "declared weight"},
				cli.Uint64Flag{Name: "tip", Usage: "tip in the smallest unit"},
				cli.Int64Flag{Name: "multiplier", Usage: "fee multiplier, 1000000000 is 1.0", Value: int64(fee.One)},
			},
		},
		{
			Name:   "simulate",
			Usage:  "apply generated transactions over a number of blocks and report the fee multiplier",
			Action: simulate,
			Flags: []cli.Flag{
				configFlag,
				cli.IntFlag{Name: "blocks", Usage: "number of blocks", Value: 10},
				cli.IntFlag{Name: "txs", Usage: "transactions per block", Value: 10},
				cli.Uint64Flag{Name: "weight", Usage: "weight declared by each transaction", Value: 50_000_000},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	level, err := log.ParseLogLevel(cfg.Logger.Level)
	if err != nil {
		return cfg, fmt.Errorf("log level: %w", err)
	}
	opts := log.Options{LogLevel: level, Output: os.Stderr}
	if cfg.Logger.Type == "json" {
		opts.Type = log.JSONLogger
	}
	log.Init(opts)
	return cfg, nil
}

func keygen(c *cli.Context) error {
	seed := make([]byte, ed25519.SeedSize)
	if s := c.String("seed"); s != "" {
		b, err := hex.DecodeString(s)
		if err != nil {
			return fmt.Errorf("decode seed: %w", err)
		}
		seed = b
	} else if _, err := rand.Read(seed); err != nil {
		return err
	}

	kp, err := ed25519.KeyPairFromSeed(seed)
	if err != nil {
		return err
	}
	id, err := extrinsic.AccountFromPublicKey(kp.Public)
	if err != nil {
		return err
	}
	address, err := id.SS58(uint16(c.Uint("prefix")))
	if err != nil {
		return err
	}

	fmt.Printf("address: %s\n", address)
	fmt.Printf("public:  0x%s\n", hex.EncodeToString(kp.Public))
	fmt.Printf("seed:    0x%s\n", hex.EncodeToString(seed))
	return nil
}

func quote(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	length := c.Uint64("length")
	if length > uint64(^uint32(0)) {
		return errors.New("length does not fit in 32 bits")
	}

	q := cfg.Calculator().Quote(uint32(length), fee.Weight(c.Uint64("weight")),
		fee.Balance(c.Uint64("tip")), fee.Multiplier(c.Int64("multiplier")))

	fmt.Printf("base fee:            %d\n", q.BaseFee)
	fmt.Printf("length fee:          %d\n", q.LengthFee)
	fmt.Printf("weight fee:          %d\n", q.WeightFee)
	fmt.Printf("adjusted weight fee: %d\n", q.AdjustedWeightFee)
	fmt.Printf("tip:                 %d\n", q.Tip)
	fmt.Printf("total:               %d\n", q.Total)
	return nil
}
