// Package relay submits built bundles to block-builder relays. The
// pipeline walks the configured relay list in priority order and returns
// the first successful outcome; per-relay failures trigger fallback, not
// retry.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

// ErrAllRelaysFailed is returned when every enabled relay rejected or
// errored for a bundle.
var ErrAllRelaysFailed = errors.New("all relays failed")

// DefaultSubmitTimeout bounds each individual relay attempt.
const DefaultSubmitTimeout = 10 * time.Second

// Submitter is the seam between the pipeline and the orchestrator. The
// relay fallback pipeline and the simulation submitter both satisfy it.
type Submitter interface {
	Submit(ctx context.Context, bundle *types.Bundle) (*types.SubmissionOutcome, error)
}

// Client submits bundles to one relay. Implementations fail on network or
// protocol errors.
type Client interface {
	Name() string
	Submit(ctx context.Context, bundle *types.Bundle) (*types.SubmissionOutcome, error)
}

type relayEntry struct {
	target types.RelayTarget
	client Client
}

// Pipeline is the sequential fallback submitter. No fan-out: racing
// relays in parallel would change the failure model and is left as an
// extension.
type Pipeline struct {
	relays  []relayEntry
	timeout time.Duration
	log     *zap.Logger
}

// NewPipeline builds a pipeline over the relay list. dial constructs a
// client per enabled relay; disabled relays stay in the list but are
// never dialed or called.
func NewPipeline(targets []types.RelayTarget, dial func(types.RelayTarget) Client, timeout time.Duration, log *zap.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	relays := make([]relayEntry, 0, len(targets))
	for _, target := range targets {
		entry := relayEntry{target: target}
		if target.Enabled {
			entry.client = dial(target)
		}
		relays = append(relays, entry)
	}
	return &Pipeline{relays: relays, timeout: timeout, log: log}
}

// Submit walks the relay list in priority order. The first relay that
// accepts the bundle short-circuits the walk; every per-relay error is
// logged and the walk advances. Exhausting the list returns
// ErrAllRelaysFailed naming the bundle.
func (p *Pipeline) Submit(ctx context.Context, bundle *types.Bundle) (*types.SubmissionOutcome, error) {
	for _, entry := range p.relays {
		if !entry.target.Enabled {
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		outcome, err := entry.client.Submit(attemptCtx, bundle)
		cancel()
		if err != nil {
			p.log.Warn("relay submission failed",
				zap.String("relay", entry.target.Name),
				zap.String("bundle_id", bundle.ID),
				zap.Error(err))
			continue
		}

		p.log.Info("bundle submitted",
			zap.String("relay", entry.target.Name),
			zap.String("bundle_id", bundle.ID),
			zap.String("status", string(outcome.Status)))
		return outcome, nil
	}

	return nil, fmt.Errorf("%w: bundle %s", ErrAllRelaysFailed, bundle.ID)
}
