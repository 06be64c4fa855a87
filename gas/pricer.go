// Package gas prices bundle legs. One shared pricing function covers every
// leg so a strategy change never needs to touch callers.
package gas

import "math/big"

// Pricer computes the gas price for legs targeting a block.
type Pricer interface {
	GasPrice(targetBlock uint64) *big.Int
}

// FixedPricer is a base-plus-priority model with static parameters.
type FixedPricer struct {
	Base     *big.Int
	Priority *big.Int
}

// NewFixedPricer returns a pricer with the given base and priority fees
// in wei.
func NewFixedPricer(base, priority *big.Int) *FixedPricer {
	return &FixedPricer{
		Base:     new(big.Int).Set(base),
		Priority: new(big.Int).Set(priority),
	}
}

// DefaultPricer returns the reference 20 gwei base + 5 gwei priority model.
func DefaultPricer() *FixedPricer {
	gwei := big.NewInt(1e9)
	return NewFixedPricer(
		new(big.Int).Mul(big.NewInt(20), gwei),
		new(big.Int).Mul(big.NewInt(5), gwei),
	)
}

func (p *FixedPricer) GasPrice(_ uint64) *big.Int {
	return new(big.Int).Add(p.Base, p.Priority)
}
