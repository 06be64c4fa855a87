package strategy

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

// detectArbitrage looks for a price gap for the swap's pair across the
// enabled venues. Only swaps at or above the minimum size are analyzed;
// below it, gas cost dominates any realistic gap.
func (d *Detector) detectArbitrage(ctx context.Context, intent types.Intent) types.Opportunity {
	swap, ok := intent.(types.Swap)
	if !ok {
		return nil
	}
	if swap.AmountIn.Cmp(d.cfg.MinArbAmountIn) < 0 {
		return nil
	}

	var (
		buyVenue, sellVenue types.Venue
		buyPrice, sellPrice *big.Int
	)
	for _, venue := range d.cfg.EnabledVenues {
		price, err := d.prices.Price(ctx, swap.TokenIn, swap.TokenOut, swap.AmountIn, venue)
		if err != nil {
			// Oracle failure means no opportunity from this strategy,
			// not a failed detection pass.
			d.log.Warn("arbitrage price query failed",
				zap.Stringer("venue", venue),
				zap.Error(err))
			return nil
		}
		// Strict comparisons keep the first venue at each extreme.
		if buyPrice == nil || price.Cmp(buyPrice) < 0 {
			buyVenue, buyPrice = venue, price
		}
		if sellPrice == nil || price.Cmp(sellPrice) > 0 {
			sellVenue, sellPrice = venue, price
		}
	}
	if buyPrice == nil {
		return nil
	}

	gross := new(big.Int).Sub(sellPrice, buyPrice)
	if gross.Cmp(d.cfg.ArbGasCost) <= 0 {
		return nil
	}
	net := new(big.Int).Sub(gross, d.cfg.ArbGasCost)

	d.log.Debug("arbitrage detected",
		zap.Stringer("buy_venue", buyVenue),
		zap.Stringer("sell_venue", sellVenue),
		zap.String("net_profit_wei", net.String()))

	return &types.Arbitrage{
		TokenA:      swap.TokenIn,
		TokenB:      swap.TokenOut,
		BuyVenue:    buyVenue,
		SellVenue:   sellVenue,
		GrossProfit: gross,
		GasCost:     new(big.Int).Set(d.cfg.ArbGasCost),
		Net:         net,
	}
}
