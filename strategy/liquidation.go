package strategy

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

// liquidationBonusDivisor models the protocol bonus as 5% of collateral.
const liquidationBonusDivisor = 20

// detectLiquidation scans open positions for one whose liquidation bonus
// clears the three-leg gas cost. Independent of the current transaction.
// The first profitable position in oracle scan order wins; this is a
// deliberate policy, not a profit-maximizing search.
func (d *Detector) detectLiquidation(ctx context.Context) types.Opportunity {
	positions, err := d.positions.OpenPositions(ctx)
	if err != nil {
		d.log.Warn("position oracle query failed", zap.Error(err))
		return nil
	}

	for _, pos := range positions {
		if pos.HealthFactor >= 1.0 {
			continue
		}
		bonus := new(big.Int).Div(pos.CollateralAmount, big.NewInt(liquidationBonusDivisor))
		if bonus.Cmp(d.cfg.LiquidationGasCost) <= 0 {
			continue
		}

		d.log.Debug("liquidation detected",
			zap.Stringer("protocol", pos.Protocol),
			zap.Stringer("debtor", pos.Owner),
			zap.Float64("health_factor", pos.HealthFactor),
			zap.String("bonus_wei", bonus.String()))

		return &types.Liquidation{
			Protocol:         pos.Protocol,
			Debtor:           pos.Owner,
			CollateralToken:  pos.CollateralToken,
			DebtToken:        pos.DebtToken,
			CollateralAmount: new(big.Int).Set(pos.CollateralAmount),
			DebtAmount:       new(big.Int).Set(pos.DebtAmount),
			Bonus:            bonus,
			GasCost:          new(big.Int).Set(d.cfg.LiquidationGasCost),
			HealthFactor:     pos.HealthFactor,
		}
	}
	return nil
}
