package mempool

import (
	"context"
	"fmt"
	"math/big"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/types"
)

// EthFeed streams pending transactions from a go-ethereum node over a
// websocket subscription. It also serves as the chain head source for
// target-block selection.
type EthFeed struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	chainID *big.Int
	log     *zap.Logger
}

// DialFeed connects to the node at url, retrying transient dial failures
// with exponential backoff.
func DialFeed(ctx context.Context, url string, log *zap.Logger) (*EthFeed, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var client *rpc.Client
	operation := func() error {
		var err error
		client, err = rpc.DialContext(ctx, url)
		if err != nil {
			log.Warn("node dial failed, retrying", zap.String("url", url), zap.Error(err))
		}
		return err
	}
	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	eth := ethclient.NewClient(client)
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}
	log.Info("connected to node", zap.String("url", url), zap.Uint64("chain_id", chainID.Uint64()))

	return &EthFeed{rpc: client, eth: eth, chainID: chainID, log: log}, nil
}

type ethSubscription struct {
	sub ethereum.Subscription
}

func (s *ethSubscription) Err() <-chan error { return s.sub.Err() }
func (s *ethSubscription) Unsubscribe()      { s.sub.Unsubscribe() }

// Subscribe opens a newPendingTransactions subscription delivering hashes
// to ch.
func (f *EthFeed) Subscribe(ctx context.Context, ch chan<- common.Hash) (Subscription, error) {
	sub, err := f.rpc.EthSubscribe(ctx, ch, "newPendingTransactions")
	if err != nil {
		return nil, fmt.Errorf("subscribe pending transactions: %w", err)
	}
	return &ethSubscription{sub: sub}, nil
}

// Get fetches the pending transaction body for a hash. Transactions that
// were mined or dropped in the meantime yield (nil, nil).
func (f *EthFeed) Get(ctx context.Context, hash common.Hash) (*types.PendingTransaction, error) {
	tx, isPending, err := f.eth.TransactionByHash(ctx, hash)
	if err == ethereum.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s: %w", hash.Hex(), err)
	}
	if !isPending {
		return nil, nil
	}

	var from common.Address
	if sender, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(f.chainID), tx); err == nil {
		from = sender
	}

	return &types.PendingTransaction{
		Hash:     hash,
		From:     from,
		To:       tx.To(),
		Value:    tx.Value(),
		GasPrice: tx.GasPrice(),
		Input:    tx.Data(),
	}, nil
}

// BlockNumber reports the current chain head.
func (f *EthFeed) BlockNumber(ctx context.Context) (uint64, error) {
	return f.eth.BlockNumber(ctx)
}

// Close tears down the node connection.
func (f *EthFeed) Close() {
	f.eth.Close()
}
