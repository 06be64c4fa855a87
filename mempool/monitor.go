package mempool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vortexlabs/mempool-vortex/bundle"
	"github.com/vortexlabs/mempool-vortex/classifier"
	"github.com/vortexlabs/mempool-vortex/journal"
	"github.com/vortexlabs/mempool-vortex/metrics"
	"github.com/vortexlabs/mempool-vortex/relay"
	"github.com/vortexlabs/mempool-vortex/strategy"
	"github.com/vortexlabs/mempool-vortex/types"
)

// MonitorConfig bounds the monitor's concurrency and intake rate.
type MonitorConfig struct {
	// Workers caps concurrent per-transaction analysis tasks.
	Workers int
	// RatePerSec throttles hash intake; zero disables throttling.
	RatePerSec float64
	// DedupSize is the LRU window of recently seen hashes.
	DedupSize int
	// BlockGasLimit rejects bundles whose legs exceed it.
	BlockGasLimit uint64
}

// DefaultMonitorConfig mirrors the defaults of the reference deployment.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Workers:       16,
		RatePerSec:    0,
		DedupSize:     8192,
		BlockGasLimit: bundle.DefaultBlockGasLimit,
	}
}

// Stats is a snapshot of one run's counters.
type Stats struct {
	Processed     int64
	Skipped       int64
	Arbitrage     int64
	Sandwich      int64
	Liquidation   int64
	BundlesBuilt  int64
	Submitted     int64
	Succeeded     int64
	Errors        int64
}

// Opportunities is the total across all strategy kinds.
func (s Stats) Opportunities() int64 {
	return s.Arbitrage + s.Sandwich + s.Liquidation
}

// Monitor consumes the pending transaction stream and drives each
// transaction through classification, detection, bundle building and
// submission. Detection failures on one transaction never affect another.
type Monitor struct {
	cfg       MonitorConfig
	feed      Feed
	detector  *strategy.Detector
	builder   *bundle.Builder
	submitter relay.Submitter
	journal   *journal.Journal
	metrics   *metrics.Metrics
	log       *zap.Logger

	limiter *rate.Limiter
	seen    *lru.Cache

	processed    atomic.Int64
	skipped      atomic.Int64
	arbitrage    atomic.Int64
	sandwich     atomic.Int64
	liquidation  atomic.Int64
	bundlesBuilt atomic.Int64
	submitted    atomic.Int64
	succeeded    atomic.Int64
	errors       atomic.Int64
}

// NewMonitor wires a monitor. The journal and metrics may be nil.
func NewMonitor(
	cfg MonitorConfig,
	feed Feed,
	detector *strategy.Detector,
	builder *bundle.Builder,
	submitter relay.Submitter,
	jnl *journal.Journal,
	m *metrics.Metrics,
	log *zap.Logger,
) (*Monitor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultMonitorConfig().Workers
	}
	if cfg.DedupSize <= 0 {
		cfg.DedupSize = DefaultMonitorConfig().DedupSize
	}
	if cfg.BlockGasLimit == 0 {
		cfg.BlockGasLimit = bundle.DefaultBlockGasLimit
	}

	seen, err := lru.New(cfg.DedupSize)
	if err != nil {
		return nil, fmt.Errorf("create dedup cache: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}

	return &Monitor{
		cfg:       cfg,
		feed:      feed,
		detector:  detector,
		builder:   builder,
		submitter: submitter,
		journal:   jnl,
		metrics:   m,
		log:       log,
		limiter:   limiter,
		seen:      seen,
	}, nil
}

// Run consumes the stream until maxTx transactions have been dispatched,
// the subscription fails, or ctx is cancelled. maxTx <= 0 means unbounded.
// In-flight analysis tasks are drained before Run returns.
func (m *Monitor) Run(ctx context.Context, maxTx int) (Stats, error) {
	started := time.Now()

	hashes := make(chan common.Hash, 256)
	sub, err := m.feed.Subscribe(ctx, hashes)
	if err != nil {
		return Stats{}, fmt.Errorf("start pending stream: %w", err)
	}
	defer sub.Unsubscribe()

	g := new(errgroup.Group)
	g.SetLimit(m.cfg.Workers)

	var dispatched int
	var runErr error

loop:
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		case err := <-sub.Err():
			if err != nil {
				runErr = fmt.Errorf("pending stream failed: %w", err)
			}
			break loop
		case hash := <-hashes:
			if found, _ := m.seen.ContainsOrAdd(hash, struct{}{}); found {
				m.skipped.Add(1)
				continue
			}
			if m.limiter != nil {
				if err := m.limiter.Wait(ctx); err != nil {
					runErr = err
					break loop
				}
			}
			h := hash
			g.Go(func() error {
				m.process(ctx, h)
				return nil
			})
			dispatched++
			if maxTx > 0 && dispatched >= maxTx {
				break loop
			}
		}
	}

	// workers always return nil; Wait is purely a drain barrier
	_ = g.Wait()

	stats := m.snapshot()
	if err := m.journal.RecordRun(context.Background(), started, time.Now(),
		stats.Processed, stats.Opportunities(), stats.Submitted, stats.Succeeded); err != nil {
		m.log.Warn("record run failed", zap.Error(err))
	}

	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	return stats, runErr
}

// process runs one transaction through the full pipeline. Every failure
// is logged and counted, never propagated.
func (m *Monitor) process(ctx context.Context, hash common.Hash) {
	tx, err := m.feed.Get(ctx, hash)
	if err != nil {
		m.errors.Add(1)
		m.metrics.IncErrors()
		m.log.Warn("fetch failed", zap.String("tx", hash.Hex()), zap.Error(err))
		return
	}
	if tx == nil {
		// mined or dropped between notification and fetch
		m.skipped.Add(1)
		return
	}

	m.processed.Add(1)
	m.metrics.IncTxProcessed()

	intent := classifier.Classify(tx)
	opp := m.detector.Detect(ctx, tx, intent)
	if opp == nil {
		return
	}
	m.countOpportunity(opp)

	b, err := m.builder.Build(ctx, opp)
	if err != nil {
		m.errors.Add(1)
		m.metrics.IncErrors()
		m.log.Warn("bundle build failed", zap.String("tx", hash.Hex()), zap.Error(err))
		return
	}
	if err := bundle.Validate(b, m.cfg.BlockGasLimit); err != nil {
		m.errors.Add(1)
		m.metrics.IncErrors()
		m.log.Warn("bundle rejected", zap.String("bundle", b.ID), zap.Error(err))
		return
	}
	m.bundlesBuilt.Add(1)
	m.metrics.IncBundlesBuilt()

	m.submitted.Add(1)
	m.metrics.IncBundlesSubmitted()
	submitStart := time.Now()
	outcome, err := m.submitter.Submit(ctx, b)
	m.metrics.ObserveSubmitLatency(time.Since(submitStart).Seconds())
	if err != nil {
		m.errors.Add(1)
		m.metrics.IncErrors()
		m.log.Warn("submission failed", zap.String("bundle", b.ID), zap.Error(err))
		return
	}
	m.succeeded.Add(1)
	m.metrics.IncBundlesSucceeded()

	if err := m.journal.RecordOutcome(ctx, outcome, b.ExpectedProfit); err != nil {
		m.log.Warn("record outcome failed", zap.String("bundle", b.ID), zap.Error(err))
	}

	m.log.Info("bundle submitted",
		zap.String("bundle", b.ID),
		zap.String("relay", outcome.Relay),
		zap.String("kind", opp.Kind().String()),
		zap.Uint64("target_block", b.TargetBlock),
		zap.String("profit_wei", b.ExpectedProfit.String()),
	)
}

func (m *Monitor) countOpportunity(opp types.Opportunity) {
	m.metrics.IncOpportunity(opp.Kind().String())
	switch opp.Kind() {
	case types.KindArbitrage:
		m.arbitrage.Add(1)
	case types.KindSandwich:
		m.sandwich.Add(1)
	case types.KindLiquidation:
		m.liquidation.Add(1)
	}
}

func (m *Monitor) snapshot() Stats {
	return Stats{
		Processed:    m.processed.Load(),
		Skipped:      m.skipped.Load(),
		Arbitrage:    m.arbitrage.Load(),
		Sandwich:     m.sandwich.Load(),
		Liquidation:  m.liquidation.Load(),
		BundlesBuilt: m.bundlesBuilt.Load(),
		Submitted:    m.submitted.Load(),
		Succeeded:    m.succeeded.Load(),
		Errors:       m.errors.Load(),
	}
}
