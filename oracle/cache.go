package oracle

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gocache "github.com/patrickmn/go-cache"

	"github.com/vortexlabs/mempool-vortex/types"
)

// CachingPriceOracle memoizes quotes for a short TTL. Concurrent analysis
// tasks frequently hit the same pair within one block, and a stale-by-one-
// block quote is no worse than the race we already accept.
type CachingPriceOracle struct {
	inner PriceOracle
	cache *gocache.Cache
}

// NewCachingPriceOracle wraps inner with a TTL cache. Quotes expire after
// ttl and are purged at twice that interval.
func NewCachingPriceOracle(inner PriceOracle, ttl time.Duration) *CachingPriceOracle {
	return &CachingPriceOracle{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (o *CachingPriceOracle) Price(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, venue types.Venue) (*big.Int, error) {
	key := fmt.Sprintf("%s/%s/%s/%s", tokenIn.Hex(), tokenOut.Hex(), amountIn.String(), venue)
	if cached, ok := o.cache.Get(key); ok {
		return new(big.Int).Set(cached.(*big.Int)), nil
	}

	quote, err := o.inner.Price(ctx, tokenIn, tokenOut, amountIn, venue)
	if err != nil {
		return nil, err
	}
	o.cache.Set(key, new(big.Int).Set(quote), gocache.DefaultExpiration)
	return quote, nil
}
