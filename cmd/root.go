// Package cmd wires the vortex CLI.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vortexlabs/mempool-vortex/utils"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "mempool-vortex",
	Short: "A mempool pipeline that detects and submits MEV bundles",
	Long: `vortex streams pending transactions from an Ethereum node, classifies
them, detects arbitrage, sandwich and liquidation opportunities, and
submits the resulting bundles through a prioritized relay list.`,
}

// ExecuteContext runs the CLI; ctx cancellation reaches the run command
// and shuts the pipeline down.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig() {
	utils.InitLogger(debug)
}
