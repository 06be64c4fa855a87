package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vortexlabs/mempool-vortex/mempool"
)

func TestPrintStatsRendersEveryCounter(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, mempool.Stats{
		Processed:    200,
		Skipped:      12,
		Arbitrage:    3,
		Sandwich:     1,
		Liquidation:  2,
		BundlesBuilt: 6,
		Submitted:    6,
		Succeeded:    5,
		Errors:       1,
	})

	out := buf.String()
	assert.Contains(t, out, "Transactions processed")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "Liquidation opportunities")
	assert.Contains(t, out, "Submissions succeeded")
	assert.Contains(t, out, "Errors")
}

func TestRunCommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"run"})
	assert.NoError(t, err)
	assert.Equal(t, "run", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("rpc-url"))
	assert.NotNil(t, cmd.Flags().Lookup("max-tx"))
	assert.NotNil(t, cmd.Flags().Lookup("simulate"))
	assert.NotNil(t, cmd.Flags().Lookup("metrics-addr"))
}
