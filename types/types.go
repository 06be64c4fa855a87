package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PendingTransaction is an immutable snapshot of a mempool transaction.
// It is owned by a single analysis task for the lifetime of that task.
type PendingTransaction struct {
	Hash     common.Hash
	From     common.Address
	To       *common.Address // nil for contract creation
	Value    *big.Int
	GasPrice *big.Int // nil when the node did not report one
	Input    []byte
}

// Venue identifies a DEX that can quote and execute a swap.
type Venue int

const (
	VenueUniswapV2 Venue = iota
	VenueUniswapV3
	VenueSushiSwap
	VenuePancakeSwap
	VenueBalancer
)

var venueNames = map[Venue]string{
	VenueUniswapV2:   "uniswap_v2",
	VenueUniswapV3:   "uniswap_v3",
	VenueSushiSwap:   "sushiswap",
	VenuePancakeSwap: "pancakeswap",
	VenueBalancer:    "balancer",
}

func (v Venue) String() string {
	if name, ok := venueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("venue(%d)", int(v))
}

// ParseVenue maps a configuration name to a Venue.
func ParseVenue(name string) (Venue, error) {
	for v, n := range venueNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown venue %q", name)
}

// Protocol identifies a lending protocol whose positions can be liquidated.
type Protocol int

const (
	ProtocolAave Protocol = iota
	ProtocolCompound
	ProtocolMakerDAO
	ProtocolEuler
)

var protocolNames = map[Protocol]string{
	ProtocolAave:     "aave",
	ProtocolCompound: "compound",
	ProtocolMakerDAO: "makerdao",
	ProtocolEuler:    "euler",
}

func (p Protocol) String() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return fmt.Sprintf("protocol(%d)", int(p))
}

// Position is an open debt position reported by the position oracle.
type Position struct {
	Protocol         Protocol
	Owner            common.Address
	CollateralToken  common.Address
	DebtToken        common.Address
	CollateralAmount *big.Int
	DebtAmount       *big.Int
	HealthFactor     float64
}
