package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OpportunityKind discriminates the Opportunity variants.
type OpportunityKind int

const (
	KindArbitrage OpportunityKind = iota
	KindSandwich
	KindLiquidation
)

func (k OpportunityKind) String() string {
	switch k {
	case KindArbitrage:
		return "arbitrage"
	case KindSandwich:
		return "sandwich"
	case KindLiquidation:
		return "liquidation"
	default:
		return "invalid"
	}
}

// Opportunity is a detected, priced MEV opportunity. It is a sealed sum
// type over Arbitrage, Sandwich and Liquidation. Every variant carries
// enough data to build its bundle without going back to the detector.
type Opportunity interface {
	Kind() OpportunityKind

	// NetProfit is the opportunity's profit net of its strategy's gas-cost
	// estimate. Detectors only surface opportunities with positive net
	// profit, and selection ranks candidates by this value.
	NetProfit() *big.Int
}

// Arbitrage is a price gap for the same pair across two venues.
type Arbitrage struct {
	TokenA      common.Address
	TokenB      common.Address
	BuyVenue    Venue
	SellVenue   Venue
	GrossProfit *big.Int
	GasCost     *big.Int
	Net         *big.Int
}

func (*Arbitrage) Kind() OpportunityKind { return KindArbitrage }

func (a *Arbitrage) NetProfit() *big.Int { return a.Net }

// Sandwich wraps a pending victim swap with a frontrun and a backrun leg.
type Sandwich struct {
	VictimHash      common.Hash
	TokenIn         common.Address
	TokenOut        common.Address
	VictimAmount    *big.Int
	FrontrunAmount  *big.Int
	BackrunAmount   *big.Int
	EstimatedProfit *big.Int
	GasCost         *big.Int
}

func (*Sandwich) Kind() OpportunityKind { return KindSandwich }

func (s *Sandwich) NetProfit() *big.Int {
	net := new(big.Int).Sub(s.EstimatedProfit, s.GasCost)
	if net.Sign() < 0 {
		return big.NewInt(0)
	}
	return net
}

// Liquidation closes an undercollateralized lending position for a bonus.
type Liquidation struct {
	Protocol         Protocol
	Debtor           common.Address
	CollateralToken  common.Address
	DebtToken        common.Address
	CollateralAmount *big.Int
	DebtAmount       *big.Int
	Bonus            *big.Int
	GasCost          *big.Int
	HealthFactor     float64
}

func (*Liquidation) Kind() OpportunityKind { return KindLiquidation }

func (l *Liquidation) NetProfit() *big.Int {
	net := new(big.Int).Sub(l.Bonus, l.GasCost)
	if net.Sign() < 0 {
		return big.NewInt(0)
	}
	return net
}
