// Package cmd - CLI commands: motor-supplychain reference show|export
package cmd

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"motor-supplychain/core/options"
	"motor-supplychain/core/output"
	"motor-supplychain/core/reference"
	"motor-supplychain/internal/config"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Reference data commands",
	Long:  "Commands for inspecting and exporting the material price and supply risk tables.",
}

var referenceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the price and risk tables in effect",
	Long: `Load the price and risk tables exactly as an evaluation would and print
them with the resulting per-material risk score. Materials missing from a
file are filled from the built-in fallback values.`,
	Args: cobra.NoArgs,
	RunE: runReferenceShow,
}

var referenceExportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the built-in tables to a directory",
	Long: `Write the built-in material_prices.csv and supply_risk_indicators.csv
to a directory so they can be edited or refreshed with "prices refresh".`,
	Args: cobra.ExactArgs(1),
	RunE: runReferenceExport,
}

var (
	showPrices  string
	showRisk    string
	showFormat  string
	exportForce bool
)

func init() {
	rootCmd.AddCommand(referenceCmd)
	referenceCmd.AddCommand(referenceShowCmd)
	referenceCmd.AddCommand(referenceExportCmd)

	referenceShowCmd.Flags().StringVar(&showPrices, "prices", "", "material price CSV (default: from config, else built-in)")
	referenceShowCmd.Flags().StringVar(&showRisk, "risk", "", "supply risk indicator CSV (default: from config, else built-in)")
	referenceShowCmd.Flags().StringVarP(&showFormat, "format", "f", "cli", "output format (cli, json)")

	referenceExportCmd.Flags().BoolVar(&exportForce, "force", false, "overwrite existing files")
}

func runReferenceShow(cmd *cobra.Command, args []string) error {
	opts := options.FromConfig(config.Get().SupplyChain)
	if showPrices != "" {
		opts.PricesPath = showPrices
	}
	if showRisk != "" {
		opts.RiskPath = showRisk
	}
	formatter, err := output.NewFormatter(showFormat)
	if err != nil {
		return err
	}

	prices, err := reference.LoadPrices(opts.PricesPath)
	if err != nil {
		return err
	}
	riskTable, err := reference.LoadRisk(opts.RiskPath)
	if err != nil {
		return err
	}
	return output.RenderReference(cmd.OutOrStdout(), formatter.Format(), output.NewReferenceView(prices, riskTable))
}

func runReferenceExport(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, name := range []string{reference.BuiltinPrices, reference.BuiltinRisk} {
		dst := filepath.Join(dir, path.Base(name))
		if err := exportBuiltin(name, dst, exportForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", dst)
	}
	return nil
}

func exportBuiltin(name, dst string, force bool) error {
	src, err := reference.Builtin(name)
	if err != nil {
		return err
	}
	defer src.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(dst, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", dst)
		}
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
