package strategy

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

// detectSandwich decides whether wrapping the swap with a frontrun and a
// backrun leg clears the victim-gas-priced cost of the two legs. The
// victim transaction itself is never built; relay bundle ordering places
// it between our legs.
func (d *Detector) detectSandwich(tx *types.PendingTransaction, intent types.Intent) types.Opportunity {
	swap, ok := intent.(types.Swap)
	if !ok {
		return nil
	}
	if swap.AmountIn.Cmp(d.cfg.MinSandwichAmountIn) < 0 {
		return nil
	}

	gasPrice := tx.GasPrice
	if gasPrice == nil {
		gasPrice = big.NewInt(0)
	}
	// A victim paying above the ceiling cannot be reliably outbid without
	// destroying the margin.
	if gasPrice.Cmp(d.cfg.MaxSandwichGasPrice) > 0 {
		d.log.Debug("victim gas price above sandwich ceiling",
			zap.Stringer("tx_hash", tx.Hash),
			zap.String("gas_price_wei", gasPrice.String()))
		return nil
	}

	frontrun := new(big.Int).Div(swap.AmountIn, big.NewInt(10))
	// Sell 5% more than bought: the frontrun leg has already pushed the
	// price when the backrun executes.
	backrun := new(big.Int).Div(
		new(big.Int).Mul(frontrun, big.NewInt(105)),
		big.NewInt(100),
	)

	profit := new(big.Int).Div(
		new(big.Int).Mul(frontrun, big.NewInt(d.cfg.SandwichImpactBps)),
		big.NewInt(10_000),
	)
	gasCost := new(big.Int).Mul(
		new(big.Int).SetUint64(d.cfg.SandwichGasUnits),
		gasPrice,
	)
	if profit.Cmp(gasCost) <= 0 {
		return nil
	}

	d.log.Debug("sandwich detected",
		zap.Stringer("victim", tx.Hash),
		zap.String("frontrun_wei", frontrun.String()),
		zap.String("profit_wei", profit.String()))

	return &types.Sandwich{
		VictimHash:      tx.Hash,
		TokenIn:         swap.TokenIn,
		TokenOut:        swap.TokenOut,
		VictimAmount:    new(big.Int).Set(swap.AmountIn),
		FrontrunAmount:  frontrun,
		BackrunAmount:   backrun,
		EstimatedProfit: profit,
		GasCost:         gasCost,
	}
}
