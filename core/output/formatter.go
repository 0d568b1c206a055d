// Package output renders supply chain evaluations for people and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	apperrors "motor-supplychain/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the report
	Render(w io.Writer, report *Report) error
}

// NewFormatter returns the formatter for a format name
func NewFormatter(format string) (Formatter, error) {
	switch Format(strings.ToLower(format)) {
	case FormatCLI, "":
		return &CLIFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}, nil
	default:
		return nil, apperrors.NotSupported("output format " + format)
	}
}

// JSONFormatter writes the report as JSON
type JSONFormatter struct {
	Indent string
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes the report as one JSON document
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(report)
}

// CLIFormatter writes aligned tables
type CLIFormatter struct{}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render writes the material table followed by the aggregate figures
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	name := report.Model
	if name == "" {
		name = "motor"
	}
	fmt.Fprintf(w, "Supply chain analysis: %s (%s kg)\n", name, Mass(report.TotalMass))
	fmt.Fprintf(w, "Report %s\n\n", report.ID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MATERIAL\tFRACTION\tMASS [kg]\tPRICE [USD/kg]\tCOST [USD]\tRISK SCORE\tEU CRITICAL\t")
	for _, row := range report.Materials {
		critical := "no"
		if row.EUCritical {
			critical = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Material, Fraction(row.Fraction), Mass(row.Mass), Money(row.Price),
			Money(row.Cost), Score(row.RiskScore), critical)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total material cost:       %s USD\n", Money(report.TotalCost))
	fmt.Fprintf(w, "Aggregate supply risk:     %s\n", Score(report.RiskIndex))
	fmt.Fprintf(w, "Critical material share:   %s\n", Fraction(report.CriticalMassFraction))

	if len(report.Filled) > 0 {
		fmt.Fprintf(w, "\nBuilt-in fallback values used for: %s\n", strings.Join(report.Filled, ", "))
	}
	fmt.Fprintf(w, "\nPrices: %s\nRisk:   %s\n", report.Sources.Prices, report.Sources.Risk)
	return nil
}

// Money formats a USD amount with two decimals
func Money(v float64) string { return fixed(v, 2) }

// Mass formats a mass in kg with three decimals
func Mass(v float64) string { return fixed(v, 3) }

// Fraction formats a dimensionless share with three decimals
func Fraction(v float64) string { return fixed(v, 3) }

// Score formats a risk score with four decimals
func Score(v float64) string { return fixed(v, 4) }

// fixed rounds half away from zero; decimal cannot represent NaN or Inf
func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
