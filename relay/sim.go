package relay

import (
	"context"

	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

// SimulationSubmitter reports a would-be submission without touching any
// relay. It needs no credentials and makes no network calls, so the full
// detect+build path can run in simulate mode.
type SimulationSubmitter struct {
	log *zap.Logger
}

// NewSimulationSubmitter returns a submitter for simulate mode.
func NewSimulationSubmitter(log *zap.Logger) *SimulationSubmitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &SimulationSubmitter{log: log}
}

func (s *SimulationSubmitter) Submit(_ context.Context, bundle *types.Bundle) (*types.SubmissionOutcome, error) {
	s.log.Info("simulation: bundle built but not submitted",
		zap.String("bundle_id", bundle.ID),
		zap.Uint64("target_block", bundle.TargetBlock),
		zap.Int("legs", len(bundle.Legs)),
		zap.String("expected_profit_wei", bundle.ExpectedProfit.String()))

	return &types.SubmissionOutcome{
		Relay:                "simulation",
		BundleID:             bundle.ID,
		Status:               types.StatusSubmitted,
		BlockNumber:          bundle.TargetBlock,
		InclusionProbability: 1.0,
	}, nil
}
