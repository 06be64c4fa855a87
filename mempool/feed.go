// Package mempool streams pending transactions and drives the
// classify / detect / build / submit pipeline over them.
package mempool

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vortexlabs/mempool-vortex/types"
)

// Subscription is a live pending-transaction subscription.
type Subscription interface {
	// Err delivers a terminal subscription failure. The channel is closed
	// on Unsubscribe.
	Err() <-chan error
	Unsubscribe()
}

// Feed is a source of pending transaction hashes and their bodies.
type Feed interface {
	// Subscribe starts delivering pending transaction hashes to ch.
	Subscribe(ctx context.Context, ch chan<- common.Hash) (Subscription, error)

	// Get fetches the pending transaction for a hash. A (nil, nil) return
	// means the transaction was mined or dropped between notification and
	// fetch; callers skip it without treating that as an error.
	Get(ctx context.Context, hash common.Hash) (*types.PendingTransaction, error)
}
