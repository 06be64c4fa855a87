package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vortexlabs/mempool-vortex/bundle"
	"github.com/vortexlabs/mempool-vortex/config"
	"github.com/vortexlabs/mempool-vortex/gas"
	"github.com/vortexlabs/mempool-vortex/journal"
	"github.com/vortexlabs/mempool-vortex/mempool"
	"github.com/vortexlabs/mempool-vortex/metrics"
	"github.com/vortexlabs/mempool-vortex/oracle"
	"github.com/vortexlabs/mempool-vortex/relay"
	"github.com/vortexlabs/mempool-vortex/strategy"
	"github.com/vortexlabs/mempool-vortex/types"
	"github.com/vortexlabs/mempool-vortex/utils"
)

var (
	rpcURL      string
	maxTx       int
	simulate    bool
	metricsAddr string
)

// priceCacheTTL bounds quote staleness; one mainnet block.
const priceCacheTTL = 12 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the mempool pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()
		defer utils.CleanupLogger()

		if err := config.LoadEnv(); err != nil {
			log.Warn("loading .env failed", zap.Error(err))
		}
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg.ApplyEnv()
		if rpcURL != "" {
			cfg.RPCEndpoint = rpcURL
		}
		if metricsAddr != "" {
			cfg.MetricsAddr = metricsAddr
		}

		// Shutdown signals arrive through the context main installs.
		return runPipeline(cmd.Context(), cfg, log)
	},
}

func init() {
	runCmd.Flags().StringVar(&rpcURL, "rpc-url", "", "websocket endpoint of the Ethereum node")
	runCmd.Flags().IntVar(&maxTx, "max-tx", 200, "stop after this many transactions (0 = unbounded)")
	runCmd.Flags().BoolVar(&simulate, "simulate", false, "log bundles instead of submitting to relays")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "listen address for Prometheus metrics")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	venues, err := cfg.Venues()
	if err != nil {
		return err
	}
	strategyCfg := strategy.DefaultConfig()
	strategyCfg.MinArbAmountIn = cfg.MinArbAmountIn.Int
	strategyCfg.MinSandwichAmountIn = cfg.MinSandwichAmountIn.Int
	strategyCfg.MaxSandwichGasPrice = cfg.MaxSandwichGasPrice.Int
	strategyCfg.EnabledVenues = venues

	prices := oracle.NewCachingPriceOracle(oracle.NewSimPriceOracle(), priceCacheTTL)
	positions := oracle.NewSimPositionOracle()
	detector := strategy.NewDetector(strategyCfg, prices, positions, log)

	ethFeed, err := mempool.DialFeed(ctx, cfg.RPCEndpoint, log)
	if err != nil {
		return err
	}
	defer ethFeed.Close()

	builder := bundle.NewBuilder(ethFeed, gas.NewFixedPricer(cfg.GasBaseFee.Int, cfg.GasPriorityFee.Int), log)

	var submitter relay.Submitter
	if simulate {
		submitter = relay.NewSimulationSubmitter(log)
	} else {
		dial := func(t types.RelayTarget) relay.Client {
			return relay.NewJSONRPCRelay(t, log)
		}
		submitter = relay.NewPipeline(cfg.Relays, dial, cfg.SubmitTimeout, log)
	}

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		jnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer jnl.Close()
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
		log.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	monitorCfg := mempool.MonitorConfig{
		Workers:       cfg.Workers,
		RatePerSec:    cfg.RatePerSec,
		DedupSize:     cfg.DedupSize,
		BlockGasLimit: cfg.BlockGasLimit,
	}
	monitor, err := mempool.NewMonitor(monitorCfg, ethFeed, detector, builder, submitter, jnl, m, log)
	if err != nil {
		return err
	}

	log.Info("pipeline starting",
		zap.String("endpoint", cfg.RPCEndpoint),
		zap.Int("max_tx", maxTx),
		zap.Bool("simulate", simulate),
	)
	stats, runErr := monitor.Run(ctx, maxTx)
	printStats(os.Stdout, stats)
	return runErr
}

func printStats(w io.Writer, stats mempool.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Count"})
	table.Append([]string{"Transactions processed", fmt.Sprint(stats.Processed)})
	table.Append([]string{"Transactions skipped", fmt.Sprint(stats.Skipped)})
	table.Append([]string{"Arbitrage opportunities", fmt.Sprint(stats.Arbitrage)})
	table.Append([]string{"Sandwich opportunities", fmt.Sprint(stats.Sandwich)})
	table.Append([]string{"Liquidation opportunities", fmt.Sprint(stats.Liquidation)})
	table.Append([]string{"Bundles built", fmt.Sprint(stats.BundlesBuilt)})
	table.Append([]string{"Bundles submitted", fmt.Sprint(stats.Submitted)})
	table.Append([]string{"Submissions succeeded", fmt.Sprint(stats.Succeeded)})
	table.Append([]string{"Errors", fmt.Sprint(stats.Errors)})
	table.Render()
}
