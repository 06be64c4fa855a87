package bundle

import (
	"errors"
	"fmt"

	"github.com/vortexlabs/mempool-vortex/types"
)

var (
	// ErrEmptyBundle rejects bundles with no legs.
	ErrEmptyBundle = errors.New("bundle has no legs")

	// ErrNonPositiveProfit rejects bundles whose expected profit is zero
	// or negative.
	ErrNonPositiveProfit = errors.New("bundle expected profit is not positive")

	// ErrGasLimitExceeded rejects bundles whose summed leg gas exceeds
	// the block gas ceiling.
	ErrGasLimitExceeded = errors.New("bundle gas exceeds block limit")
)

// DefaultBlockGasLimit approximates the mainnet block gas limit.
const DefaultBlockGasLimit = 12_000_000

// Validate checks a built bundle against the submission invariants. Any
// violation blocks submission entirely; Validate must run before any
// relay call.
func Validate(b *types.Bundle, blockGasLimit uint64) error {
	if len(b.Legs) == 0 {
		return fmt.Errorf("%w: bundle %s", ErrEmptyBundle, b.ID)
	}
	if b.ExpectedProfit == nil || b.ExpectedProfit.Sign() <= 0 {
		return fmt.Errorf("%w: bundle %s", ErrNonPositiveProfit, b.ID)
	}

	var total uint64
	for _, leg := range b.Legs {
		total += leg.GasLimit
	}
	if total > blockGasLimit {
		return fmt.Errorf("%w: bundle %s uses %d of %d", ErrGasLimitExceeded, b.ID, total, blockGasLimit)
	}
	return nil
}
