package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eigerco/txcore/internal/builder"
	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/internal/reward"
	"github.com/eigerco/txcore/internal/validation"
)

// AuthorBeneficiary routes a reward share to the block author.
const AuthorBeneficiary = "author"

// TreasuryAccount is the account of the treasury module, "modl" followed by
// its module id and zero padding.
var TreasuryAccount = func() extrinsic.AccountID {
	var id extrinsic.AccountID
	copy(id[:], "modlpy/trsry")
	return id
}()

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the runtime parameters of the transaction core.
type Config struct {
	Runtime    RuntimeConfig    `yaml:"Runtime"`
	Fees       FeesConfig       `yaml:"Fees"`
	Block      BlockConfig      `yaml:"Block"`
	Multiplier MultiplierConfig `yaml:"Multiplier"`
	Rewards    []ShareConfig    `yaml:"Rewards"`
	Store      StoreConfig      `yaml:"Store"`
	Logger     LoggerConfig     `yaml:"Logger"`
}

type RuntimeConfig struct {
	SpecVersion uint32 `yaml:"SpecVersion"`
	// Genesis is the hex encoded genesis hash.
	Genesis    string `yaml:"Genesis"`
	EraPeriod  uint64 `yaml:"EraPeriod"`
	SS58Prefix uint16 `yaml:"SS58Prefix"`
}

// FeesConfig amounts are in the smallest currency unit.
type FeesConfig struct {
	BaseFee              uint64 `yaml:"BaseFee"`
	ByteFee              uint64 `yaml:"ByteFee"`
	WeightFeeCoefficient uint64 `yaml:"WeightFeeCoefficient"`
}

type BlockConfig struct {
	MaxWeight                uint64 `yaml:"MaxWeight"`
	MaxLength                uint64 `yaml:"MaxLength"`
	AvailableRatioPercent    uint32 `yaml:"AvailableRatioPercent"`
	GasLimit                 uint64 `yaml:"GasLimit"`
	SignatureCacheSize       int    `yaml:"SignatureCacheSize"`
	PrevalidationConcurrency int    `yaml:"PrevalidationConcurrency"`
}

// MultiplierConfig parameterizes the fee multiplier controller. Variable and
// Minimum are fixed point with 10^9 units per one.
type MultiplierConfig struct {
	TargetFullnessPercent uint32 `yaml:"TargetFullnessPercent"`
	Variable              int64  `yaml:"Variable"`
	Minimum               int64  `yaml:"Minimum"`
}

// ShareConfig routes Parts of the fees to Beneficiary, either "author" or an
// SS58 address.
type ShareConfig struct {
	Name        string `yaml:"Name"`
	Parts       uint32 `yaml:"Parts"`
	Beneficiary string `yaml:"Beneficiary"`
}

type StoreConfig struct {
	// Path of the pebble database, in memory when empty.
	Path string `yaml:"Path"`
}

type LoggerConfig struct {
	Level string `yaml:"Level"`
	// Type is "console" or "json".
	Type string `yaml:"Type"`
}

// Default returns the parameters of the reference runtime.
func Default() Config {
	treasury, _ := TreasuryAccount.SS58(extrinsic.DefaultSS58Prefix)
	return Config{
		Runtime: RuntimeConfig{
			SpecVersion: 84,
			Genesis:     crypto.HashData([]byte("txcore")).String(),
			EraPeriod:   builder.DefaultEraPeriod,
			SS58Prefix:  extrinsic.DefaultSS58Prefix,
		},
		Fees: FeesConfig{
			BaseFee:              uint64(1 * fee.Micro),
			ByteFee:              uint64(10 * fee.Micro),
			WeightFeeCoefficient: uint64(50 * fee.Nano),
		},
		Block: BlockConfig{
			MaxWeight:                1_000_000_000,
			MaxLength:                5 * 1024 * 1024,
			AvailableRatioPercent:    75,
			GasLimit:                 10_000_000,
			SignatureCacheSize:       validation.DefaultSignatureCacheSize,
			PrevalidationConcurrency: 8,
		},
		Multiplier: MultiplierConfig{
			TargetFullnessPercent: 25,
			Variable:              int64(fee.DefaultAdjustmentVariable),
			Minimum:               1,
		},
		Rewards: []ShareConfig{
			{Name: "treasury", Parts: 4, Beneficiary: treasury},
			{Name: AuthorBeneficiary, Parts: 1, Beneficiary: AuthorBeneficiary},
		},
		Logger: LoggerConfig{
			Level: "info",
			Type:  "console",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. A Rewards
// list in data replaces the default one.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := crypto.HashFromHex(c.Runtime.Genesis); err != nil {
		return fmt.Errorf("%w: genesis: %w", ErrInvalidConfig, err)
	}
	if c.Runtime.EraPeriod < extrinsic.MinEraPeriod || c.Runtime.EraPeriod > extrinsic.MaxEraPeriod {
		return fmt.Errorf("%w: era period %d outside [%d, %d]", ErrInvalidConfig,
			c.Runtime.EraPeriod, extrinsic.MinEraPeriod, extrinsic.MaxEraPeriod)
	}
	if c.Block.MaxWeight == 0 {
		return fmt.Errorf("%w: max block weight is zero", ErrInvalidConfig)
	}
	if c.Block.AvailableRatioPercent == 0 || c.Block.AvailableRatioPercent > 100 {
		return fmt.Errorf("%w: available ratio %d%%", ErrInvalidConfig, c.Block.AvailableRatioPercent)
	}
	if c.Multiplier.TargetFullnessPercent > 100 {
		return fmt.Errorf("%w: target fullness %d%%", ErrInvalidConfig, c.Multiplier.TargetFullnessPercent)
	}
	if c.Multiplier.Variable < 0 || c.Multiplier.Variable > int64(fee.One) {
		return fmt.Errorf("%w: adjustment variable must be within [0, 1]", ErrInvalidConfig)
	}
	if c.Multiplier.Minimum <= 0 {
		return fmt.Errorf("%w: minimum multiplier must be positive", ErrInvalidConfig)
	}
	if _, err := c.Splitter(); err != nil {
		return err
	}
	return nil
}

func (c Config) GenesisHash() crypto.Hash {
	h, _ := crypto.HashFromHex(c.Runtime.Genesis)
	return h
}

func (c Config) Calculator() fee.Calculator {
	return fee.Calculator{
		BaseFee:     fee.Balance(c.Fees.BaseFee),
		ByteFee:     fee.Balance(c.Fees.ByteFee),
		WeightToFee: fee.LinearWeightToFee{Coefficient: fee.Balance(c.Fees.WeightFeeCoefficient)},
	}
}

func (c Config) Adjustment() fee.TargetedFeeAdjustment {
	return fee.TargetedFeeAdjustment{
		Target:   fee.PerbillFromPercent(c.Multiplier.TargetFullnessPercent),
		Variable: fee.Multiplier(c.Multiplier.Variable),
		Minimum:  fee.Multiplier(c.Multiplier.Minimum),
	}
}

// Splitter builds the reward policy from Rewards.
func (c Config) Splitter() (reward.Splitter, error) {
	var s reward.Splitter
	for i, sh := range c.Rewards {
		name := sh.Name
		if name == "" {
			name = sh.Beneficiary
		}
		if sh.Beneficiary == AuthorBeneficiary {
			s.Shares = append(s.Shares, reward.Share{Parts: sh.Parts, Beneficiary: reward.Author()})
			continue
		}
		id, _, err := extrinsic.AccountFromSS58(sh.Beneficiary)
		if err != nil {
			return reward.Splitter{}, fmt.Errorf("%w: reward share %d: %w", ErrInvalidConfig, i, err)
		}
		s.Shares = append(s.Shares, reward.Share{Parts: sh.Parts, Beneficiary: reward.Account(name, id)})
	}
	return s, nil
}

// PipelineParams returns the parameters of the default validation pipeline.
func (c Config) PipelineParams() (validation.Params, error) {
	splitter, err := c.Splitter()
	if err != nil {
		return validation.Params{}, err
	}
	return validation.Params{
		Calculator:         c.Calculator(),
		Splitter:           splitter,
		AvailableRatio:     fee.PerbillFromPercent(c.Block.AvailableRatioPercent),
		MaxBlockLength:     c.Block.MaxLength,
		BlockGasLimit:      c.Block.GasLimit,
		SignatureCacheSize: c.Block.SignatureCacheSize,
	}, nil
}
