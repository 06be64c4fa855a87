// Package config loads the vortex configuration from a YAML file with
// environment overrides for endpoints and credentials.
package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vortexlabs/mempool-vortex/types"
)

// Wei is a *big.Int that unmarshals from a decimal YAML string or integer,
// since wei amounts routinely exceed int64.
type Wei struct {
	*big.Int
}

func NewWei(v *big.Int) Wei { return Wei{Int: v} }

func (w *Wei) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		var n int64
		if err2 := unmarshal(&n); err2 != nil {
			return err
		}
		w.Int = big.NewInt(n)
		return nil
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return fmt.Errorf("invalid wei amount %q", raw)
	}
	w.Int = v
	return nil
}

func (w Wei) MarshalYAML() (interface{}, error) {
	if w.Int == nil {
		return "0", nil
	}
	return w.String(), nil
}

type Config struct {
	// Chain and network settings
	RPCEndpoint string `yaml:"rpc_endpoint"`
	ChainID     uint64 `yaml:"chain_id"`

	// Detection thresholds
	MinArbAmountIn      Wei      `yaml:"min_arb_amount_in"`
	MinSandwichAmountIn Wei      `yaml:"min_sandwich_amount_in"`
	MaxSandwichGasPrice Wei      `yaml:"max_sandwich_gas_price"`
	EnabledVenues       []string `yaml:"enabled_venues"`

	// Gas pricing for bundle legs
	GasBaseFee     Wei `yaml:"gas_base_fee"`
	GasPriorityFee Wei `yaml:"gas_priority_fee"`

	// Monitor settings
	Workers       int     `yaml:"workers"`
	RatePerSec    float64 `yaml:"rate_per_sec"`
	DedupSize     int     `yaml:"dedup_size"`
	BlockGasLimit uint64  `yaml:"block_gas_limit"`

	// Relay settings
	Relays        []types.RelayTarget `yaml:"relays"`
	SubmitTimeout time.Duration       `yaml:"submit_timeout"`

	// Persistence and observability
	JournalPath string `yaml:"journal_path"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns the mainnet defaults: 1 ETH / 5 ETH thresholds,
// the three reference venues, and the public relay list in fallback order.
func DefaultConfig() *Config {
	eth := big.NewInt(1e18)
	gwei := big.NewInt(1e9)
	return &Config{
		RPCEndpoint:         "ws://localhost:8546",
		ChainID:             1,
		MinArbAmountIn:      NewWei(new(big.Int).Set(eth)),
		MinSandwichAmountIn: NewWei(new(big.Int).Mul(big.NewInt(5), eth)),
		MaxSandwichGasPrice: NewWei(new(big.Int).Mul(big.NewInt(50), gwei)),
		EnabledVenues:       []string{"uniswap_v2", "sushiswap", "uniswap_v3"},
		GasBaseFee:          NewWei(new(big.Int).Mul(big.NewInt(20), gwei)),
		GasPriorityFee:      NewWei(new(big.Int).Mul(big.NewInt(5), gwei)),
		Workers:             16,
		RatePerSec:          0,
		DedupSize:           8192,
		BlockGasLimit:       12_000_000,
		Relays: []types.RelayTarget{
			{
				Name:              "flashbots",
				Endpoint:          "https://relay.flashbots.net",
				Enabled:           true,
				InclusionEstimate: 0.85,
			},
			{
				Name:              "beaverbuild",
				Endpoint:          "https://rpc.beaverbuild.org",
				Enabled:           true,
				InclusionEstimate: 0.75,
			},
			{
				Name:              "rsync",
				Endpoint:          "https://rsync-builder.xyz",
				Enabled:           true,
				InclusionEstimate: 0.70,
			},
		},
		SubmitTimeout: 10 * time.Second,
		JournalPath:   "",
		MetricsAddr:   "",
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the pipeline
// cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.RPCEndpoint == "" {
		problems = append(problems, "rpc_endpoint must be specified")
	}
	if c.MinArbAmountIn.Int == nil || c.MinArbAmountIn.Sign() <= 0 {
		problems = append(problems, "min_arb_amount_in must be positive")
	}
	if c.MinSandwichAmountIn.Int == nil || c.MinSandwichAmountIn.Sign() <= 0 {
		problems = append(problems, "min_sandwich_amount_in must be positive")
	}
	if c.MaxSandwichGasPrice.Int == nil || c.MaxSandwichGasPrice.Sign() <= 0 {
		problems = append(problems, "max_sandwich_gas_price must be positive")
	}
	if len(c.EnabledVenues) == 0 {
		problems = append(problems, "at least one venue must be enabled")
	}
	for _, name := range c.EnabledVenues {
		if _, err := types.ParseVenue(name); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if c.GasBaseFee.Int == nil || c.GasBaseFee.Sign() <= 0 {
		problems = append(problems, "gas_base_fee must be positive")
	}
	if c.GasPriorityFee.Int == nil || c.GasPriorityFee.Sign() < 0 {
		problems = append(problems, "gas_priority_fee must not be negative")
	}
	if c.Workers < 0 {
		problems = append(problems, "workers must not be negative")
	}
	if c.BlockGasLimit == 0 {
		problems = append(problems, "block_gas_limit must be positive")
	}
	if len(c.Relays) == 0 {
		problems = append(problems, "at least one relay must be configured")
	}
	for _, r := range c.Relays {
		if r.Name == "" || r.Endpoint == "" {
			problems = append(problems, "every relay needs a name and an endpoint")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Venues resolves the configured venue names.
func (c *Config) Venues() ([]types.Venue, error) {
	venues := make([]types.Venue, 0, len(c.EnabledVenues))
	for _, name := range c.EnabledVenues {
		v, err := types.ParseVenue(name)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, nil
}
