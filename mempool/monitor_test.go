package mempool

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/bundle"
	"github.com/vortexlabs/mempool-vortex/gas"
	"github.com/vortexlabs/mempool-vortex/oracle"
	"github.com/vortexlabs/mempool-vortex/strategy"
	"github.com/vortexlabs/mempool-vortex/types"
)

type fakeSubscription struct {
	errc chan error
}

func (s *fakeSubscription) Err() <-chan error { return s.errc }
func (s *fakeSubscription) Unsubscribe()      {}

// fakeFeed replays a fixed hash sequence and serves transaction bodies
// from a map. Hashes absent from the map yield (nil, nil).
type fakeFeed struct {
	hashes []common.Hash
	txs    map[common.Hash]*types.PendingTransaction
	errs   map[common.Hash]error
	sub    *fakeSubscription
}

func newFakeFeed(hashes []common.Hash, txs map[common.Hash]*types.PendingTransaction) *fakeFeed {
	return &fakeFeed{
		hashes: hashes,
		txs:    txs,
		sub:    &fakeSubscription{errc: make(chan error, 1)},
	}
}

func (f *fakeFeed) Subscribe(_ context.Context, ch chan<- common.Hash) (Subscription, error) {
	go func() {
		for _, h := range f.hashes {
			ch <- h
		}
	}()
	return f.sub, nil
}

func (f *fakeFeed) Get(_ context.Context, hash common.Hash) (*types.PendingTransaction, error) {
	if err := f.errs[hash]; err != nil {
		return nil, err
	}
	return f.txs[hash], nil
}

type recordingSubmitter struct {
	mu      sync.Mutex
	bundles []*types.Bundle
	err     error
}

func (s *recordingSubmitter) Submit(_ context.Context, b *types.Bundle) (*types.SubmissionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.bundles = append(s.bundles, b)
	return &types.SubmissionOutcome{
		Relay:       "fake",
		BundleID:    b.ID,
		Status:      types.StatusSubmitted,
		BlockNumber: b.TargetBlock,
	}, nil
}

type stubPrices struct{}

func (stubPrices) Price(context.Context, common.Address, common.Address, *big.Int, types.Venue) (*big.Int, error) {
	return nil, errors.New("no quotes")
}

type stubPositions struct {
	positions []types.Position
}

func (s stubPositions) OpenPositions(context.Context) ([]types.Position, error) {
	return s.positions, nil
}

func hashN(n byte) common.Hash {
	var h common.Hash
	h[31] = n
	return h
}

func transferTx(n byte) *types.PendingTransaction {
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	input := make([]byte, 68)
	copy(input, []byte{0xa9, 0x05, 0x9c, 0xbb})
	return &types.PendingTransaction{
		Hash:     hashN(n),
		To:       &to,
		Value:    big.NewInt(0),
		GasPrice: big.NewInt(1e9),
		Input:    input,
	}
}

// unhealthyPosition yields a liquidation with bonus 500 against a gas cost
// of 100 under testDetector's config.
func unhealthyPosition() types.Position {
	return types.Position{
		Protocol:         types.ProtocolAave,
		Owner:            common.HexToAddress("0x00000000000000000000000000000000000000bb"),
		CollateralToken:  common.HexToAddress("0x00000000000000000000000000000000000000cc"),
		DebtToken:        common.HexToAddress("0x00000000000000000000000000000000000000dd"),
		CollateralAmount: big.NewInt(10_000),
		DebtAmount:       big.NewInt(4_000),
		HealthFactor:     0.9,
	}
}

func testDetector(positions []types.Position) *strategy.Detector {
	cfg := strategy.DefaultConfig()
	cfg.LiquidationGasCost = big.NewInt(100)
	return strategy.NewDetector(cfg, stubPrices{}, stubPositions{positions: positions}, zap.NewNop())
}

func testMonitor(t *testing.T, feed Feed, detector *strategy.Detector, submitter *recordingSubmitter) *Monitor {
	t.Helper()
	builder := bundle.NewBuilder(oracle.FixedHead(100), gas.DefaultPricer(), zap.NewNop())
	m, err := NewMonitor(DefaultMonitorConfig(), feed, detector, builder, submitter, nil, nil, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestRunStopsAtMaxTx(t *testing.T) {
	txs := make(map[common.Hash]*types.PendingTransaction)
	var hashes []common.Hash
	for n := byte(1); n <= 5; n++ {
		txs[hashN(n)] = transferTx(n)
		hashes = append(hashes, hashN(n))
	}
	feed := newFakeFeed(hashes, txs)
	sub := &recordingSubmitter{}

	m := testMonitor(t, feed, testDetector(nil), sub)
	stats, err := m.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Processed)
	assert.Zero(t, stats.Errors)
	assert.Empty(t, sub.bundles)
}

func TestMissingTransactionSkipped(t *testing.T) {
	// hash 2 was mined between notification and fetch
	txs := map[common.Hash]*types.PendingTransaction{
		hashN(1): transferTx(1),
		hashN(3): transferTx(3),
	}
	feed := newFakeFeed([]common.Hash{hashN(1), hashN(2), hashN(3)}, txs)
	sub := &recordingSubmitter{}

	m := testMonitor(t, feed, testDetector(nil), sub)
	stats, err := m.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Processed)
	assert.Equal(t, int64(1), stats.Skipped)
	assert.Zero(t, stats.Errors)
}

func TestDuplicateHashesDeduped(t *testing.T) {
	txs := map[common.Hash]*types.PendingTransaction{
		hashN(1): transferTx(1),
		hashN(2): transferTx(2),
	}
	feed := newFakeFeed([]common.Hash{hashN(1), hashN(1), hashN(1), hashN(2)}, txs)
	sub := &recordingSubmitter{}

	m := testMonitor(t, feed, testDetector(nil), sub)
	stats, err := m.Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Processed)
	assert.Equal(t, int64(2), stats.Skipped)
}

func TestFetchErrorDoesNotStopRun(t *testing.T) {
	txs := map[common.Hash]*types.PendingTransaction{
		hashN(1): transferTx(1),
		hashN(3): transferTx(3),
	}
	feed := newFakeFeed([]common.Hash{hashN(1), hashN(2), hashN(3)}, txs)
	feed.errs = map[common.Hash]error{hashN(2): errors.New("node hiccup")}
	sub := &recordingSubmitter{}

	m := testMonitor(t, feed, testDetector(nil), sub)
	stats, err := m.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Processed)
	assert.Equal(t, int64(1), stats.Errors)
}

func TestFullPipelineSubmitsLiquidationBundle(t *testing.T) {
	txs := map[common.Hash]*types.PendingTransaction{hashN(1): transferTx(1)}
	feed := newFakeFeed([]common.Hash{hashN(1)}, txs)
	sub := &recordingSubmitter{}

	m := testMonitor(t, feed, testDetector([]types.Position{unhealthyPosition()}), sub)
	stats, err := m.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Processed)
	assert.Equal(t, int64(1), stats.Liquidation)
	assert.Equal(t, int64(1), stats.BundlesBuilt)
	assert.Equal(t, int64(1), stats.Submitted)
	assert.Equal(t, int64(1), stats.Succeeded)
	assert.Equal(t, int64(1), stats.Opportunities())

	require.Len(t, sub.bundles, 1)
	b := sub.bundles[0]
	assert.Len(t, b.Legs, 3)
	assert.Equal(t, uint64(101), b.TargetBlock)
}

func TestSubmitterFailureCounted(t *testing.T) {
	txs := map[common.Hash]*types.PendingTransaction{hashN(1): transferTx(1)}
	feed := newFakeFeed([]common.Hash{hashN(1)}, txs)
	sub := &recordingSubmitter{err: errors.New("all relays down")}

	m := testMonitor(t, feed, testDetector([]types.Position{unhealthyPosition()}), sub)
	stats, err := m.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Submitted)
	assert.Zero(t, stats.Succeeded)
	assert.Equal(t, int64(1), stats.Errors)
}

func TestSubscriptionFailureEndsRun(t *testing.T) {
	feed := newFakeFeed(nil, nil)
	sub := &recordingSubmitter{}
	m := testMonitor(t, feed, testDetector(nil), sub)

	go func() {
		time.Sleep(10 * time.Millisecond)
		feed.sub.errc <- errors.New("websocket closed")
	}()

	_, err := m.Run(context.Background(), 0)
	assert.ErrorContains(t, err, "pending stream failed")
}

func TestContextCancelReturnsCleanly(t *testing.T) {
	feed := newFakeFeed(nil, nil)
	sub := &recordingSubmitter{}
	m := testMonitor(t, feed, testDetector(nil), sub)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := m.Run(ctx, 0)
	assert.NoError(t, err)
}
