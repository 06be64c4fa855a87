// Package classifier maps raw transaction input bytes to a typed intent
// using function-selector dispatch. Classification is total: anything it
// cannot interpret degrades to types.Unknown instead of failing.
package classifier

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vortexlabs/mempool-vortex/types"
)

// Recognized 4-byte function selectors.
var (
	// transfer(address,uint256)
	selERC20Transfer = [4]byte{0xa9, 0x05, 0x9c, 0xbb}
	// swapExactTokensForTokens(uint256,uint256,address[],address,uint256)
	selSwapExactTokens = [4]byte{0x38, 0xed, 0x17, 0x39}
	// exactInputSingle((address,address,uint24,address,uint256,uint256,uint256,uint160))
	selExactInputSingle = [4]byte{0x41, 0x4b, 0xf3, 0x89}
)

// Calldata offsets of the fixed 32-byte argument slots we decode.
const (
	transferMinLen   = 4 + 2*32 // selector + recipient + amount
	v2SwapMinLen     = 4 + 2*32 // selector + amountIn + amountOutMin
	v3SingleMinLen   = 4 + 6*32 // selector + struct through amountIn
	v3AmountInOffset = 4 + 5*32 // amountIn slot inside ExactInputSingleParams
)

// Classify inspects tx.Input and returns the transaction's intent.
// It is pure, never fails, and runs in O(1): only fixed-offset slots are
// read, dynamic calldata (token paths) is left as zero placeholders.
func Classify(tx *types.PendingTransaction) types.Intent {
	in := tx.Input
	if len(in) < 4 {
		return types.Unknown{}
	}

	var sel [4]byte
	copy(sel[:], in[:4])

	switch sel {
	case selERC20Transfer:
		if len(in) < transferMinLen {
			return types.Unknown{}
		}
		token := common.Address{}
		if tx.To != nil {
			token = *tx.To
		}
		return types.Transfer{
			Token:  token,
			Amount: new(big.Int).SetBytes(in[36:68]),
		}

	case selSwapExactTokens:
		if len(in) < v2SwapMinLen {
			return types.Unknown{}
		}
		// The token path is a dynamic array; strategies only gate on
		// AmountIn, so TokenIn/TokenOut stay zero.
		return types.Swap{
			Style:    types.SwapV2MultiHop,
			AmountIn: new(big.Int).SetBytes(in[4:36]),
		}

	case selExactInputSingle:
		if len(in) < v3SingleMinLen {
			return types.Unknown{}
		}
		return types.Swap{
			Style:    types.SwapV3SingleHop,
			TokenIn:  common.BytesToAddress(in[4+12 : 36]),
			TokenOut: common.BytesToAddress(in[36+12 : 68]),
			AmountIn: new(big.Int).SetBytes(in[v3AmountInOffset : v3AmountInOffset+32]),
		}
	}

	return types.Unknown{}
}
