// Package cmd - evaluate command
package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"motor-supplychain/core/options"
	"motor-supplychain/core/output"
	"motor-supplychain/core/pipeline"
	"motor-supplychain/core/types"
	"motor-supplychain/internal/config"
	apperrors "motor-supplychain/internal/errors"
	"motor-supplychain/internal/logging"
)

var (
	outputFormat   string
	motorMass      float64
	modelFile      string
	pricesFile     string
	riskFile       string
	fCopper        float64
	fMagnet        float64
	fSteel         float64
	fAluminum      float64
	priceOverrides map[string]string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate material cost and supply risk of a motor",
	Long: `Split the motor mass into copper, NdFeB magnet, electrical steel,
aluminum and other material, then price each share and score its supply risk.

Settings are layered: configuration file, then model file, then flags.

Examples:
  motor-supplychain evaluate --mass 42.5
  motor-supplychain evaluate --model motor.hcl
  motor-supplychain evaluate --mass 10 --f-magnet 0.08 --price magnet=95
  motor-supplychain evaluate --mass 10 --prices ./material_prices.csv --format json`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json); default from config")
	evaluateCmd.Flags().Float64VarP(&motorMass, "mass", "m", 0, "total motor mass [kg]")
	evaluateCmd.Flags().StringVar(&modelFile, "model", "", "motor model file (.yaml, .yml, .hcl)")
	evaluateCmd.Flags().StringVar(&pricesFile, "prices", "", "material price CSV (default: built-in table)")
	evaluateCmd.Flags().StringVar(&riskFile, "risk", "", "supply risk indicator CSV (default: built-in table)")
	evaluateCmd.Flags().Float64Var(&fCopper, "f-copper", 0, "copper mass fraction")
	evaluateCmd.Flags().Float64Var(&fMagnet, "f-magnet", 0, "NdFeB magnet mass fraction")
	evaluateCmd.Flags().Float64Var(&fSteel, "f-steel", 0, "electrical steel mass fraction")
	evaluateCmd.Flags().Float64Var(&fAluminum, "f-aluminum", 0, "aluminum mass fraction")
	evaluateCmd.Flags().StringToStringVar(&priceOverrides, "price", nil, "unit price override, material=USD/kg (repeatable)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	opts := options.FromConfig(cfg.SupplyChain)
	enabled := cfg.SupplyChain.Enabled
	name := ""
	mass, massSet := 0.0, false

	if modelFile != "" {
		model, err := options.Load(modelFile)
		if err != nil {
			return err
		}
		if opts, err = model.PipelineOptions(opts); err != nil {
			return err
		}
		enabled = model.SupplyChain
		name = model.Name
		mass, massSet = model.Mass, true
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		mass, massSet = motorMass, true
	}
	if flags.Changed("prices") {
		opts.PricesPath = pricesFile
	}
	if flags.Changed("risk") {
		opts.RiskPath = riskFile
	}
	setFromFlag(cmd, "f-copper", &opts.Fractions.Copper, fCopper)
	setFromFlag(cmd, "f-magnet", &opts.Fractions.Magnet, fMagnet)
	setFromFlag(cmd, "f-steel", &opts.Fractions.Steel, fSteel)
	setFromFlag(cmd, "f-aluminum", &opts.Fractions.Aluminum, fAluminum)

	overrides, err := parsePriceOverrides(priceOverrides)
	if err != nil {
		return err
	}
	if len(overrides) > 0 {
		merged := make(map[types.Material]float64, len(opts.PriceOverrides)+len(overrides))
		for m, p := range opts.PriceOverrides {
			merged[m] = p
		}
		for m, p := range overrides {
			merged[m] = p
		}
		opts.PriceOverrides = merged
	}

	if !enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Supply chain analysis is disabled for this model.")
		return nil
	}
	if !massSet {
		return apperrors.Input("motor mass is required: pass --mass or a model file with a mass")
	}

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}

	p, err := pipeline.New(opts)
	if err != nil {
		return err
	}
	logging.Debug("evaluating supply chain", zap.Float64("mass_kg", mass), zap.String("model", name))

	report := output.NewReport(name, p, p.Evaluate(mass))
	return formatter.Render(cmd.OutOrStdout(), report)
}

func setFromFlag(cmd *cobra.Command, flag string, dst *float64, v float64) {
	if cmd.Flags().Changed(flag) {
		*dst = v
	}
}

// parsePriceOverrides reads material=price pairs
func parsePriceOverrides(raw map[string]string) (map[types.Material]float64, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[types.Material]float64, len(raw))
	for _, k := range keys {
		m, ok := types.ParseMaterial(k)
		if !ok {
			return nil, apperrors.Newf(apperrors.TypeInput, "unknown material %q in --price", k)
		}
		price, err := strconv.ParseFloat(raw[k], 64)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.TypeInput, err, "invalid price for %s", k)
		}
		out[m] = price
	}
	return out, nil
}
