// Package oracle defines the read-only chain-state seams the pipeline
// depends on. Detection and building never touch the chain directly; they
// go through these interfaces so live backends and deterministic test
// doubles are interchangeable.
package oracle

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vortexlabs/mempool-vortex/types"
)

// PriceOracle quotes the execution price of a swap on a given venue.
type PriceOracle interface {
	// Price returns the amount of tokenOut received for swapping amountIn
	// of tokenIn on venue.
	Price(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, venue types.Venue) (*big.Int, error)
}

// PositionOracle reports open debt positions across lending protocols.
// Scan order is oracle-defined; the liquidation strategy takes the first
// profitable position in that order.
type PositionOracle interface {
	OpenPositions(ctx context.Context) ([]types.Position, error)
}

// HeadSource reports the current chain head. Bundles always target the
// next block.
type HeadSource interface {
	BlockNumber(ctx context.Context) (uint64, error)
}
