// Package bundle turns a detected opportunity into an ordered transaction
// bundle and validates it before submission. Leg order is execution order.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/gas"
	"github.com/vortexlabs/mempool-vortex/oracle"
	"github.com/vortexlabs/mempool-vortex/types"
)

var (
	// ErrUnsupportedVenue is returned when a swap leg routes to a venue
	// without a known router. Silently defaulting would burn gas on a
	// guaranteed revert.
	ErrUnsupportedVenue = errors.New("unsupported venue")

	// ErrUnsupportedProtocol is the liquidation counterpart of
	// ErrUnsupportedVenue.
	ErrUnsupportedProtocol = errors.New("unsupported protocol")

	// ErrInvalidOpportunity is returned when an opportunity variant the
	// builder does not know reaches Build.
	ErrInvalidOpportunity = errors.New("invalid opportunity shape")
)

// Per-leg gas limits from the reference cost model.
const (
	swapLegGas        = 200_000
	flashLoanLegGas   = 300_000
	liquidationLegGas = 400_000
	repayLegGas       = 100_000
)

// arbNotionalDivisor sizes arbitrage legs at a tenth of the gross profit
// figure, a conservative notional.
const arbNotionalDivisor = 10

// Builder constructs bundles. Deterministic given the opportunity and the
// current chain head; every bundle targets head+1.
type Builder struct {
	head   oracle.HeadSource
	pricer gas.Pricer
	log    *zap.Logger
}

// NewBuilder creates a builder over the given head source and gas pricer.
func NewBuilder(head oracle.HeadSource, pricer gas.Pricer, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{head: head, pricer: pricer, log: log}
}

// Build constructs the bundle for one opportunity. The caller must run
// Validate before submitting the result.
func (b *Builder) Build(ctx context.Context, opp types.Opportunity) (*types.Bundle, error) {
	head, err := b.head.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chain head: %w", err)
	}
	target := head + 1

	var (
		legs   []types.Leg
		profit *big.Int
	)
	switch o := opp.(type) {
	case *types.Arbitrage:
		legs, err = b.arbitrageLegs(o, target)
		profit = o.Net
	case *types.Sandwich:
		legs, err = b.sandwichLegs(o, target)
		profit = o.EstimatedProfit
	case *types.Liquidation:
		legs, err = b.liquidationLegs(o, target)
		profit = o.Bonus
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidOpportunity, opp)
	}
	if err != nil {
		return nil, err
	}

	var totalGas uint64
	for _, leg := range legs {
		totalGas += leg.GasLimit
	}

	bundle := &types.Bundle{
		ID:             uuid.NewString(),
		Legs:           legs,
		TargetBlock:    target,
		TotalGas:       totalGas,
		ExpectedProfit: new(big.Int).Set(profit),
	}

	b.log.Debug("bundle built",
		zap.String("bundle_id", bundle.ID),
		zap.Stringer("kind", opp.Kind()),
		zap.Uint64("target_block", target),
		zap.Int("legs", len(legs)),
		zap.Uint64("fingerprint", bundle.Fingerprint()))

	return bundle, nil
}

// arbitrageLegs is buy on the cheap venue then sell on the expensive one.
func (b *Builder) arbitrageLegs(o *types.Arbitrage, target uint64) ([]types.Leg, error) {
	notional := new(big.Int).Div(o.GrossProfit, big.NewInt(arbNotionalDivisor))

	buy, err := b.swapLeg(o.BuyVenue, o.TokenA, o.TokenB, notional, target)
	if err != nil {
		return nil, err
	}
	sell, err := b.swapLeg(o.SellVenue, o.TokenB, o.TokenA, notional, target)
	if err != nil {
		return nil, err
	}
	return []types.Leg{buy, sell}, nil
}

// sandwichLegs is frontrun then backrun. The victim transaction is already
// pending; relay bundle ordering places it between the two legs, so this
// builder never constructs or includes it.
func (b *Builder) sandwichLegs(o *types.Sandwich, target uint64) ([]types.Leg, error) {
	// Both legs execute on the v2 router regardless of the victim's
	// venue; same pool in and out keeps the position flat.
	front, err := b.swapLeg(types.VenueUniswapV2, o.TokenIn, o.TokenOut, o.FrontrunAmount, target)
	if err != nil {
		return nil, err
	}
	back, err := b.swapLeg(types.VenueUniswapV2, o.TokenOut, o.TokenIn, o.BackrunAmount, target)
	if err != nil {
		return nil, err
	}
	return []types.Leg{front, back}, nil
}

// liquidationLegs is flash-loan draw, liquidation call, flash-loan repay,
// in that fixed order. Any other order reverts atomically on chain.
func (b *Builder) liquidationLegs(o *types.Liquidation, target uint64) ([]types.Leg, error) {
	liqTarget, liqPayload, err := liquidationCall(o)
	if err != nil {
		return nil, err
	}

	gasPrice := b.pricer.GasPrice(target)
	return []types.Leg{
		{
			Target:   aavePool,
			Payload:  encodeFlashLoan(o.DebtToken, o.DebtAmount),
			Value:    big.NewInt(0),
			GasLimit: flashLoanLegGas,
			GasPrice: gasPrice,
		},
		{
			Target:   liqTarget,
			Payload:  liqPayload,
			Value:    big.NewInt(0),
			GasLimit: liquidationLegGas,
			GasPrice: gasPrice,
		},
		{
			Target:   o.DebtToken,
			Payload:  encodeRepay(o.DebtAmount),
			Value:    big.NewInt(0),
			GasLimit: repayLegGas,
			GasPrice: gasPrice,
		},
	}, nil
}

// swapLeg routes one swap to its venue's router.
func (b *Builder) swapLeg(venue types.Venue, tokenIn, tokenOut common.Address, amount *big.Int, target uint64) (types.Leg, error) {
	router, payload, err := routeSwap(venue, tokenIn, tokenOut, amount)
	if err != nil {
		return types.Leg{}, err
	}

	// Native-asset input travels as call value instead of calldata.
	value := big.NewInt(0)
	if tokenIn == (common.Address{}) {
		value = new(big.Int).Set(amount)
	}

	return types.Leg{
		Target:   router,
		Payload:  payload,
		Value:    value,
		GasLimit: swapLegGas,
		GasPrice: b.pricer.GasPrice(target),
	}, nil
}
