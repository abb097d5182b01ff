// Package config loads and validates simulation configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hedgelab/deltahedge/backtest"
	"github.com/hedgelab/deltahedge/hedge"
	"github.com/hedgelab/deltahedge/ledger"
	"github.com/hedgelab/deltahedge/options"
)

// Config is the complete configuration of one simulation run.
type Config struct {
	Contract ContractConfig `json:"contract" yaml:"contract"`
	Hedge    hedge.Config   `json:"hedge" yaml:"hedge"`
	Costs    CostConfig     `json:"costs" yaml:"costs"`
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Path     PathConfig     `json:"path" yaml:"path"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Report   ReportConfig   `json:"report" yaml:"report"`
}

// ContractConfig describes the single option contract of a run.
type ContractConfig struct {
	Strike     float64 `json:"strike" yaml:"strike"`
	Type       string  `json:"type" yaml:"type"` // "call" or "put"
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// CostConfig mirrors ledger.CostModel.
type CostConfig struct {
	PerShare float64 `json:"per_share" yaml:"per_share"`
	Fixed    float64 `json:"fixed" yaml:"fixed"`
}

// EngineConfig contains run-level accounting parameters.
type EngineConfig struct {
	InitialCapital float64  `json:"initial_capital" yaml:"initial_capital"`
	OptionQty      float64  `json:"option_qty" yaml:"option_qty"`
	CapitalFloor   *float64 `json:"capital_floor,omitempty" yaml:"capital_floor,omitempty"`
	Epsilon        float64  `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
}

// PathConfig selects where the snapshot sequence comes from.
type PathConfig struct {
	Source string `json:"source" yaml:"source"` // "csv", "gbm" or "flat"
	File   string `json:"file,omitempty" yaml:"file,omitempty"`

	// synthetic path parameters (gbm/flat)
	Spot       float64 `json:"spot,omitempty" yaml:"spot,omitempty"`
	Rate       float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	Drift      float64 `json:"drift,omitempty" yaml:"drift,omitempty"`
	Vol        float64 `json:"vol,omitempty" yaml:"vol,omitempty"`
	ImpliedVol float64 `json:"implied_vol,omitempty" yaml:"implied_vol,omitempty"`
	Steps      int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	Dt         float64 `json:"dt,omitempty" yaml:"dt,omitempty"`
	Seed       int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	StepsFile string `json:"steps_file,omitempty" yaml:"steps_file,omitempty"`
	RunsFile  string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ReportConfig contains reporter constants.
type ReportConfig struct {
	AnnualizationFactor float64 `json:"annualization_factor,omitempty" yaml:"annualization_factor,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the config as YAML (or JSON for .json paths).
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for obvious mistakes. Pricing-level
// domain errors (negative tau and friends) are caught at run time.
func (c *Config) Validate() error {
	if c.Contract.Strike <= 0 {
		return fmt.Errorf("contract.strike must be positive")
	}
	if _, err := options.ParseOptionType(c.Contract.Type); err != nil {
		return fmt.Errorf("contract.type: %w", err)
	}
	if c.Contract.Multiplier < 0 {
		return fmt.Errorf("contract.multiplier must not be negative")
	}
	if _, err := hedge.PolicyByName(c.Hedge); err != nil {
		return err
	}
	if c.Costs.PerShare < 0 || c.Costs.Fixed < 0 {
		return fmt.Errorf("costs must not be negative")
	}
	if c.Engine.InitialCapital <= 0 {
		return fmt.Errorf("engine.initial_capital must be positive")
	}
	if c.Engine.OptionQty == 0 {
		return fmt.Errorf("engine.option_qty must be non-zero")
	}
	if c.Engine.Epsilon < 0 {
		return fmt.Errorf("engine.epsilon must not be negative")
	}

	switch c.Path.Source {
	case "csv":
		if c.Path.File == "" {
			return fmt.Errorf("path.file required for csv source")
		}
	case "gbm", "flat":
		if c.Path.Spot <= 0 {
			return fmt.Errorf("path.spot must be positive")
		}
		if c.Path.Steps <= 0 {
			return fmt.Errorf("path.steps must be positive")
		}
		if c.Path.Dt <= 0 {
			return fmt.Errorf("path.dt must be positive")
		}
		if c.Path.Vol < 0 {
			return fmt.Errorf("path.vol must not be negative")
		}
	default:
		return fmt.Errorf("path.source must be 'csv', 'gbm' or 'flat'")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.StepsFile == "" || c.Journal.RunsFile == "" {
			return fmt.Errorf("journal steps_file and runs_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Report.AnnualizationFactor < 0 {
		return fmt.Errorf("report.annualization_factor must not be negative")
	}
	return nil
}

// BuildContract converts the contract section.
func (c *Config) BuildContract() (options.Contract, error) {
	typ, err := options.ParseOptionType(c.Contract.Type)
	if err != nil {
		return options.Contract{}, err
	}
	mult := c.Contract.Multiplier
	if mult == 0 {
		mult = 1
	}
	return options.Contract{
		Strike:     c.Contract.Strike,
		Type:       typ,
		Multiplier: mult,
	}, nil
}

// BuildPolicy constructs the configured hedging policy.
func (c *Config) BuildPolicy() (hedge.Policy, error) {
	return hedge.PolicyByName(c.Hedge)
}

// BuildEngineConfig converts the engine and cost sections.
func (c *Config) BuildEngineConfig() backtest.Config {
	return backtest.Config{
		InitialCapital: c.Engine.InitialCapital,
		OptionQty:      c.Engine.OptionQty,
		Costs: ledger.CostModel{
			PerShare: c.Costs.PerShare,
			Fixed:    c.Costs.Fixed,
		},
		CapitalFloor: c.Engine.CapitalFloor,
		Epsilon:      c.Engine.Epsilon,
	}
}

// Default returns a configuration with sensible defaults: an ATM short
// call hedged daily over a synthetic month.
func Default() *Config {
	return &Config{
		Contract: ContractConfig{
			Strike:     100,
			Type:       "call",
			Multiplier: 1,
		},
		Hedge: hedge.Config{
			Mode:                   "threshold",
			Band:                   0.05,
			ForceLiquidateAtExpiry: true,
		},
		Costs: CostConfig{
			PerShare: 0.01,
		},
		Engine: EngineConfig{
			InitialCapital: 100_000,
			OptionQty:      -1,
		},
		Path: PathConfig{
			Source: "gbm",
			Spot:   100,
			Vol:    0.2,
			Steps:  30,
			Dt:     1.0 / 365,
			Seed:   1,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./deltahedge.sqlite",
		},
		Report: ReportConfig{
			AnnualizationFactor: 252,
		},
	}
}
