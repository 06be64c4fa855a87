package classifier

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexlabs/mempool-vortex/types"
)

func pendingTx(to *common.Address, input []byte) *types.PendingTransaction {
	return &types.PendingTransaction{
		Hash:  common.HexToHash("0x01"),
		From:  common.HexToAddress("0xaaaa"),
		To:    to,
		Value: big.NewInt(0),
		Input: input,
	}
}

// pad32 left-pads b into a 32-byte slot.
func pad32(b []byte) []byte {
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func TestClassifyShortInput(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3} {
		intent := Classify(pendingTx(nil, make([]byte, n)))
		assert.Equal(t, types.IntentUnknown, intent.Kind(), "input length %d", n)
	}
}

func TestClassifyUnrecognizedSelector(t *testing.T) {
	input := append([]byte{0xde, 0xad, 0xbe, 0xef}, make([]byte, 64)...)
	intent := Classify(pendingTx(nil, input))
	assert.Equal(t, types.IntentUnknown, intent.Kind())
}

func TestClassifyERC20Transfer(t *testing.T) {
	token := common.HexToAddress("0x1111")
	recipient := common.HexToAddress("0x2222")
	amount := big.NewInt(123456789)

	input := []byte{0xa9, 0x05, 0x9c, 0xbb}
	input = append(input, pad32(recipient.Bytes())...)
	input = append(input, pad32(amount.Bytes())...)

	intent := Classify(pendingTx(&token, input))
	transfer, ok := intent.(types.Transfer)
	require.True(t, ok)
	assert.Equal(t, token, transfer.Token)
	assert.Zero(t, transfer.Amount.Cmp(amount))
}

func TestClassifyTransferTruncated(t *testing.T) {
	token := common.HexToAddress("0x1111")
	input := append([]byte{0xa9, 0x05, 0x9c, 0xbb}, make([]byte, 32)...)
	intent := Classify(pendingTx(&token, input))
	assert.Equal(t, types.IntentUnknown, intent.Kind())
}

func TestClassifyV2Swap(t *testing.T) {
	amountIn := new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18))

	input := []byte{0x38, 0xed, 0x17, 0x39}
	input = append(input, pad32(amountIn.Bytes())...)
	input = append(input, make([]byte, 32)...) // amountOutMin

	intent := Classify(pendingTx(nil, input))
	swap, ok := intent.(types.Swap)
	require.True(t, ok)
	assert.Equal(t, types.SwapV2MultiHop, swap.Style)
	assert.Zero(t, swap.AmountIn.Cmp(amountIn))
	assert.Equal(t, common.Address{}, swap.TokenIn)
	assert.Equal(t, common.Address{}, swap.TokenOut)
}

func TestClassifyV3SingleSwap(t *testing.T) {
	tokenIn := common.HexToAddress("0x3333")
	tokenOut := common.HexToAddress("0x4444")
	amountIn := new(big.Int).Mul(big.NewInt(7), big.NewInt(1e18))

	input := []byte{0x41, 0x4b, 0xf3, 0x89}
	input = append(input, pad32(tokenIn.Bytes())...)  // tokenIn
	input = append(input, pad32(tokenOut.Bytes())...) // tokenOut
	input = append(input, make([]byte, 32)...)        // fee
	input = append(input, make([]byte, 32)...)        // recipient
	input = append(input, make([]byte, 32)...)        // deadline
	input = append(input, pad32(amountIn.Bytes())...) // amountIn

	intent := Classify(pendingTx(nil, input))
	swap, ok := intent.(types.Swap)
	require.True(t, ok)
	assert.Equal(t, types.SwapV3SingleHop, swap.Style)
	assert.Equal(t, tokenIn, swap.TokenIn)
	assert.Equal(t, tokenOut, swap.TokenOut)
	assert.Zero(t, swap.AmountIn.Cmp(amountIn))
}

func TestClassifyV3SwapTruncated(t *testing.T) {
	// Recognized selector but calldata stops before the amountIn slot.
	input := append([]byte{0x41, 0x4b, 0xf3, 0x89}, make([]byte, 4*32)...)
	intent := Classify(pendingTx(nil, input))
	assert.Equal(t, types.IntentUnknown, intent.Kind())
}
