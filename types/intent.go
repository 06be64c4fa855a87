package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// IntentKind discriminates the Intent variants.
type IntentKind int

const (
	IntentTransfer IntentKind = iota
	IntentSwap
	IntentUnknown
)

func (k IntentKind) String() string {
	switch k {
	case IntentTransfer:
		return "transfer"
	case IntentSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// Intent is the classified meaning of a transaction's input data.
// It is a sealed sum type: the only implementations are Transfer, Swap and
// Unknown, and consumers type-switch over them exhaustively.
type Intent interface {
	Kind() IntentKind
}

// SwapStyle distinguishes the router interface a swap targets.
type SwapStyle int

const (
	SwapV2MultiHop SwapStyle = iota
	SwapV3SingleHop
)

// Transfer is a plain ERC-20 transfer.
type Transfer struct {
	Token  common.Address
	Amount *big.Int
}

func (Transfer) Kind() IntentKind { return IntentTransfer }

// Swap is a DEX swap. TokenIn/TokenOut may be zero for the multi-hop style,
// where the path lives in dynamic calldata that classification does not
// decode; AmountIn is always decoded exactly from its fixed slot.
type Swap struct {
	Style    SwapStyle
	TokenIn  common.Address
	TokenOut common.Address
	AmountIn *big.Int
}

func (Swap) Kind() IntentKind { return IntentSwap }

// Unknown is any transaction the classifier cannot interpret. It never
// yields an opportunity.
type Unknown struct{}

func (Unknown) Kind() IntentKind { return IntentUnknown }
