package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"motor-supplychain/core/reference"
	"motor-supplychain/core/refresh"
	"motor-supplychain/core/risk"
	"motor-supplychain/core/types"
)

// ReferenceRow is one material of the loaded reference tables
type ReferenceRow struct {
	Material  string  `json:"material"`
	Price     float64 `json:"price_usd_per_kg"`
	Indicator string  `json:"world_bank_indicator,omitempty"`

	reference.Indicators

	Score float64 `json:"risk_score"`
}

// ReferenceView is the reference data in effect for an evaluation
type ReferenceView struct {
	Materials []ReferenceRow `json:"materials"`
	Sources   Sources        `json:"sources"`
}

// NewReferenceView joins a price and a risk table per material
func NewReferenceView(prices *reference.PriceTable, riskTable *reference.RiskTable) *ReferenceView {
	v := &ReferenceView{
		Sources: Sources{
			Prices: prices.Source.String(),
			Risk:   riskTable.Source.String(),
		},
	}
	for _, m := range types.Materials() {
		ind := riskTable.For(m)
		v.Materials = append(v.Materials, ReferenceRow{
			Material:   m.String(),
			Price:      prices.Price(m),
			Indicator:  prices.Indicator[m],
			Indicators: ind,
			Score:      risk.MaterialRiskScore(ind),
		})
	}
	return v
}

// RenderReference writes the reference view in the given format
func RenderReference(w io.Writer, format Format, v *ReferenceView) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATERIAL\tPRICE [USD/kg]\tINDICATOR\tHHI\tWGI\tEU CRITICAL\tSUBST\tRECYCL\tSCORE")
	for _, r := range v.Materials {
		indicator := r.Indicator
		if indicator == "" {
			indicator = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%t\t%g\t%g\t%s\n",
			r.Material, Money(r.Price), indicator, r.HHI, r.WGIScore, r.EUCritical,
			r.Substitutability, r.Recyclability, Score(r.Score))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nPrices: %s\nRisk:   %s\n", v.Sources.Prices, v.Sources.Risk)
	return nil
}

// RenderRefresh writes one progress line per price row and the saved path
func RenderRefresh(w io.Writer, format Format, r *refresh.Result) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	for _, u := range r.Updates {
		switch u.Outcome {
		case refresh.OutcomeUpdated:
			fmt.Fprintf(w, "  %s: updated %s → %s USD/kg\n", u.Material, Score(u.Previous), Score(u.Price))
		case refresh.OutcomeFailed:
			fmt.Fprintf(w, "  %s: kept %s USD/kg (%s)\n", u.Material, Score(u.Previous), u.Error)
		default:
			fmt.Fprintf(w, "  %s: no indicator, kept %s USD/kg\n", u.Material, Score(u.Previous))
		}
	}
	fmt.Fprintf(w, "\nPrices saved to %s (year %d, %d updated, %d kept)\n",
		r.Path, r.Year, r.Count(refresh.OutcomeUpdated),
		r.Count(refresh.OutcomeSkipped)+r.Count(refresh.OutcomeFailed))
	return nil
}
