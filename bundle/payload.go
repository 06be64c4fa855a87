package bundle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call payloads are opaque to the pipeline: the selector is exact, the
// amount occupies its real fixed slot, and remaining parameters are zero
// placeholders. Byte-exact ABI encoding is owned by the signing layer.

// pad32 left-pads b into a fresh 32-byte slot.
func pad32(b []byte) []byte {
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// encodeV2Swap encodes swapExactTokensForTokens(uint256,uint256,address[],address,uint256).
func encodeV2Swap(_, _ common.Address, amount *big.Int) []byte {
	data := []byte{0x38, 0xed, 0x17, 0x39}
	data = append(data, pad32(amount.Bytes())...)
	data = append(data, make([]byte, 4*32)...) // amountOutMin, path, to, deadline
	return data
}

// encodeV3Swap encodes exactInputSingle(ExactInputSingleParams).
func encodeV3Swap(tokenIn, tokenOut common.Address, amount *big.Int) []byte {
	data := []byte{0x41, 0x4b, 0xf3, 0x89}
	data = append(data, pad32(tokenIn.Bytes())...)
	data = append(data, pad32(tokenOut.Bytes())...)
	data = append(data, make([]byte, 3*32)...) // fee, recipient, deadline
	data = append(data, pad32(amount.Bytes())...)
	data = append(data, make([]byte, 2*32)...) // amountOutMinimum, sqrtPriceLimitX96
	return data
}

// encodeFlashLoan encodes flashLoan(address,address[],uint256[],uint256[],address,bytes,uint16).
func encodeFlashLoan(token common.Address, amount *big.Int) []byte {
	data := []byte{0xab, 0x9c, 0x4b, 0x5d}
	data = append(data, pad32(token.Bytes())...)
	data = append(data, pad32(amount.Bytes())...)
	data = append(data, make([]byte, 5*32)...)
	return data
}

// encodeAaveLiquidation encodes liquidationCall(address,address,address,uint256,bool).
func encodeAaveLiquidation(debtor, collateral, debt common.Address, amount *big.Int) []byte {
	data := []byte{0x00, 0xa7, 0x18, 0xa9}
	data = append(data, pad32(collateral.Bytes())...)
	data = append(data, pad32(debt.Bytes())...)
	data = append(data, pad32(debtor.Bytes())...)
	data = append(data, pad32(amount.Bytes())...)
	data = append(data, make([]byte, 32)...) // receiveAToken
	return data
}

// encodeCompoundLiquidation encodes liquidateBorrow(address,uint256,address).
func encodeCompoundLiquidation(debtor, collateral common.Address, amount *big.Int) []byte {
	data := []byte{0xf5, 0xe3, 0xc4, 0x62}
	data = append(data, pad32(debtor.Bytes())...)
	data = append(data, pad32(amount.Bytes())...)
	data = append(data, pad32(collateral.Bytes())...)
	return data
}

// encodeRepay encodes the transfer(address,uint256) that repays the flash
// loan to its pool.
func encodeRepay(amount *big.Int) []byte {
	data := []byte{0xa9, 0x05, 0x9c, 0xbb}
	data = append(data, pad32(aavePool.Bytes())...)
	data = append(data, pad32(amount.Bytes())...)
	return data
}
