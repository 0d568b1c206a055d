// Package cmd - CLI command: motor-supplychain prices refresh
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"motor-supplychain/core/output"
	"motor-supplychain/core/refresh"
	"motor-supplychain/internal/config"
	"motor-supplychain/internal/logging"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Material price table commands",
}

var pricesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh material prices from the commodity price source",
	Long: `Fetch recent monthly commodity prices for every material that declares
a World Bank indicator, average them, convert USD/t to USD/kg, and rewrite
the price table in place. Materials without an indicator, or whose fetch
fails, keep their current price.

IMPORTANT: This command is for operators only. Evaluations never refresh
prices on their own. Export the built-in table first with
"reference export" and point --prices at the exported file.`,
	Args: cobra.NoArgs,
	RunE: runPricesRefresh,
}

var (
	refreshPath        string
	refreshSource      string
	refreshBaseURL     string
	refreshTimeout     time.Duration
	refreshTotal       time.Duration
	refreshMaxValues   int
	refreshMetricsFile string
	refreshFormat      string
)

func init() {
	rootCmd.AddCommand(pricesCmd)
	pricesCmd.AddCommand(pricesRefreshCmd)

	pricesRefreshCmd.Flags().StringVarP(&refreshPath, "prices", "p", "", "price CSV to rewrite (default: supply_chain.prices_csv from config)")
	pricesRefreshCmd.Flags().StringVar(&refreshSource, "source", "", "price source (worldbank, none); default from config")
	pricesRefreshCmd.Flags().StringVar(&refreshBaseURL, "base-url", "", "indicator endpoint of the source; default from config")
	pricesRefreshCmd.Flags().DurationVar(&refreshTimeout, "timeout", 0, "timeout per indicator request; default from config")
	pricesRefreshCmd.Flags().DurationVar(&refreshTotal, "deadline", 5*time.Minute, "timeout for the whole refresh")
	pricesRefreshCmd.Flags().IntVar(&refreshMaxValues, "max-values", 0, "number of recent monthly values to average; default from config")
	pricesRefreshCmd.Flags().StringVar(&refreshMetricsFile, "metrics-file", "", "write Prometheus text metrics to this file")
	pricesRefreshCmd.Flags().StringVarP(&refreshFormat, "format", "f", "cli", "output format (cli, json)")
}

func runPricesRefresh(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	srcCfg := refresh.SourceConfig{
		Name:      cfg.Refresh.Source,
		BaseURL:   cfg.Refresh.BaseURL,
		Timeout:   cfg.Refresh.Timeout(),
		MaxValues: cfg.Refresh.MaxValues,
	}
	if refreshSource != "" {
		srcCfg.Name = refreshSource
	}
	if refreshBaseURL != "" {
		srcCfg.BaseURL = refreshBaseURL
	}
	if refreshTimeout > 0 {
		srcCfg.Timeout = refreshTimeout
	}
	if refreshMaxValues > 0 {
		srcCfg.MaxValues = refreshMaxValues
	}

	path := refreshPath
	if path == "" {
		path = cfg.SupplyChain.PricesCSV
	}

	formatter, err := output.NewFormatter(refreshFormat)
	if err != nil {
		return err
	}
	source, err := refresh.NewSource(srcCfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	refresher := refresh.NewRefresher(source, refresh.WithMetrics(refresh.NewMetrics(reg)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, refreshTotal)
	defer cancel()

	if formatter.Format() == output.FormatCLI {
		fmt.Fprintf(cmd.OutOrStdout(), "Refreshing %s from %s...\n", path, srcCfg.Name)
	}
	result, err := refresher.Run(ctx, path)
	if err != nil {
		return err
	}
	if err := output.RenderRefresh(cmd.OutOrStdout(), formatter.Format(), result); err != nil {
		return err
	}

	if refreshMetricsFile != "" {
		if err := prometheus.WriteToTextfile(refreshMetricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logging.Debug("refresh metrics written", zap.String("path", refreshMetricsFile))
	}
	return nil
}
