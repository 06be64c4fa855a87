// Package strategy runs the detection strategies against classified
// transactions and selects the single most profitable opportunity.
package strategy

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/oracle"
	"github.com/vortexlabs/mempool-vortex/types"
)

// Config carries the detection thresholds and gas-cost models. It is
// loaded once and treated as immutable for the process lifetime.
type Config struct {
	// Arbitrage: minimum swap size worth analyzing and the fixed gas-cost
	// estimate for a two-leg trade.
	MinArbAmountIn *big.Int
	ArbGasCost     *big.Int

	// Sandwich: minimum victim size, the gas-price ceiling above which a
	// victim cannot be outbid profitably, the per-bundle gas units for the
	// two legs, and the modeled price impact in basis points.
	MinSandwichAmountIn *big.Int
	MaxSandwichGasPrice *big.Int
	SandwichGasUnits    uint64
	SandwichImpactBps   int64

	// Liquidation: fixed gas-cost estimate for the three-leg
	// flash-loan-liquidate-repay sequence.
	LiquidationGasCost *big.Int

	// Venues queried for arbitrage, in enumeration order. Ties on equal
	// prices resolve to the first venue encountered.
	EnabledVenues []types.Venue
}

// DefaultConfig returns the reference thresholds: 1 ETH / 5 ETH minimum
// sizes, 50 gwei victim ceiling, 0.5% modeled impact, and the fixed
// per-strategy gas models.
func DefaultConfig() Config {
	eth := big.NewInt(1e18)
	gwei := big.NewInt(1e9)
	return Config{
		MinArbAmountIn: new(big.Int).Set(eth),
		ArbGasCost: new(big.Int).Mul(
			big.NewInt(300_000),
			new(big.Int).Mul(big.NewInt(20), gwei),
		),
		MinSandwichAmountIn: new(big.Int).Mul(big.NewInt(5), eth),
		MaxSandwichGasPrice: new(big.Int).Mul(big.NewInt(50), gwei),
		SandwichGasUnits:    400_000,
		SandwichImpactBps:   50,
		LiquidationGasCost: new(big.Int).Mul(
			big.NewInt(500_000),
			new(big.Int).Mul(big.NewInt(25), gwei),
		),
		EnabledVenues: []types.Venue{
			types.VenueUniswapV2,
			types.VenueSushiSwap,
			types.VenueUniswapV3,
		},
	}
}

// Detector runs the three independent strategies and merges their results.
type Detector struct {
	cfg       Config
	prices    oracle.PriceOracle
	positions oracle.PositionOracle
	log       *zap.Logger
}

// NewDetector creates a detector over the given oracles.
func NewDetector(cfg Config, prices oracle.PriceOracle, positions oracle.PositionOracle, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{
		cfg:       cfg,
		prices:    prices,
		positions: positions,
		log:       log,
	}
}

// Detect runs every strategy against (tx, intent) and returns the
// candidate with the greatest net profit, or nil when none qualifies.
// A strategy whose oracle queries fail contributes nothing; it never
// suppresses the other strategies.
func (d *Detector) Detect(ctx context.Context, tx *types.PendingTransaction, intent types.Intent) types.Opportunity {
	var candidates []types.Opportunity

	if opp := d.detectArbitrage(ctx, intent); opp != nil {
		candidates = append(candidates, opp)
	}
	if opp := d.detectSandwich(tx, intent); opp != nil {
		candidates = append(candidates, opp)
	}
	if opp := d.detectLiquidation(ctx); opp != nil {
		candidates = append(candidates, opp)
	}

	return selectBest(candidates)
}

// selectBest returns the candidate with the greatest net profit. Ties
// resolve to the earlier candidate, which follows strategy declaration
// order: arbitrage, sandwich, liquidation.
func selectBest(candidates []types.Opportunity) types.Opportunity {
	var best types.Opportunity
	for _, c := range candidates {
		if best == nil || c.NetProfit().Cmp(best.NetProfit()) > 0 {
			best = c
		}
	}
	return best
}
