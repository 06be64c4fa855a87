package oracle

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vortexlabs/mempool-vortex/types"
)

// SimPriceOracle quotes a fixed price per venue regardless of the pair.
// It stands in for live DEX queries during development and tests.
type SimPriceOracle struct {
	Quotes map[types.Venue]*big.Int
}

// NewSimPriceOracle returns the reference simulated quotes: a small spread
// across three venues that produces a detectable arbitrage on large swaps.
func NewSimPriceOracle() *SimPriceOracle {
	eth := big.NewInt(1e18)
	return &SimPriceOracle{
		Quotes: map[types.Venue]*big.Int{
			types.VenueUniswapV2: new(big.Int).Mul(big.NewInt(1000), eth),
			types.VenueSushiSwap: new(big.Int).Mul(big.NewInt(1002), eth),
			types.VenueUniswapV3: new(big.Int).Mul(big.NewInt(999), eth),
		},
	}
}

func (o *SimPriceOracle) Price(_ context.Context, _, _ common.Address, _ *big.Int, venue types.Venue) (*big.Int, error) {
	quote, ok := o.Quotes[venue]
	if !ok {
		return nil, fmt.Errorf("no quote for venue %s", venue)
	}
	return new(big.Int).Set(quote), nil
}

// SimPositionOracle reports a fixed set of debt positions.
type SimPositionOracle struct {
	Positions []types.Position
}

// NewSimPositionOracle returns one unhealthy Aave position: 10,000 USDC
// collateral against 4 ETH of debt at health factor 0.95.
func NewSimPositionOracle() *SimPositionOracle {
	return &SimPositionOracle{
		Positions: []types.Position{
			{
				Protocol:         types.ProtocolAave,
				Owner:            common.HexToAddress("0x1234567890abcdef"),
				CollateralToken:  common.HexToAddress("0xa0b86a33"),
				DebtToken:        common.HexToAddress("0xc02aaa39"),
				CollateralAmount: new(big.Int).Mul(big.NewInt(10000), big.NewInt(1e6)),
				DebtAmount:       new(big.Int).Mul(big.NewInt(4), big.NewInt(1e18)),
				HealthFactor:     0.95,
			},
		},
	}
}

func (o *SimPositionOracle) OpenPositions(_ context.Context) ([]types.Position, error) {
	out := make([]types.Position, len(o.Positions))
	copy(out, o.Positions)
	return out, nil
}

// FixedHead is a HeadSource pinned to one block number.
type FixedHead uint64

func (h FixedHead) BlockNumber(_ context.Context) (uint64, error) {
	return uint64(h), nil
}
