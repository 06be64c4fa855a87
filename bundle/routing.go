package bundle

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vortexlabs/mempool-vortex/types"
)

// Router and protocol contract addresses (Ethereum mainnet).
var (
	uniswapV2Router = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	uniswapV3Router = common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	sushiRouter     = common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F")

	aavePool            = common.HexToAddress("0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9")
	compoundComptroller = common.HexToAddress("0x3d9819210A31b4961b30EF54bE2aeD79B9c9Cd3B")
)

// venueRoute maps a venue to its router address and calldata encoder.
// Venues without an entry cannot be routed and fail the build.
type venueRoute struct {
	router common.Address
	encode func(tokenIn, tokenOut common.Address, amount *big.Int) []byte
}

var venueRoutes = map[types.Venue]venueRoute{
	types.VenueUniswapV2: {router: uniswapV2Router, encode: encodeV2Swap},
	types.VenueSushiSwap: {router: sushiRouter, encode: encodeV2Swap}, // same interface as v2
	types.VenueUniswapV3: {router: uniswapV3Router, encode: encodeV3Swap},
}

// routeSwap resolves a venue to its router and encoded call.
func routeSwap(venue types.Venue, tokenIn, tokenOut common.Address, amount *big.Int) (common.Address, []byte, error) {
	route, ok := venueRoutes[venue]
	if !ok {
		return common.Address{}, nil, fmt.Errorf("%w: %s", ErrUnsupportedVenue, venue)
	}
	return route.router, route.encode(tokenIn, tokenOut, amount), nil
}

// liquidationCall resolves a liquidation to its protocol contract and
// encoded call.
func liquidationCall(o *types.Liquidation) (common.Address, []byte, error) {
	switch o.Protocol {
	case types.ProtocolAave:
		return aavePool, encodeAaveLiquidation(o.Debtor, o.CollateralToken, o.DebtToken, o.DebtAmount), nil
	case types.ProtocolCompound:
		return compoundComptroller, encodeCompoundLiquidation(o.Debtor, o.CollateralToken, o.DebtAmount), nil
	default:
		return common.Address{}, nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, o.Protocol)
	}
}
