package output

import (
	"time"

	"github.com/google/uuid"

	"motor-supplychain/core/pipeline"
	"motor-supplychain/core/types"
)

// Report is one rendered evaluation
type Report struct {
	// ID uniquely identifies the report
	ID string `json:"id"`

	// CreatedAt is when the evaluation ran
	CreatedAt time.Time `json:"created_at"`

	// Model is the motor model name, if any
	Model string `json:"model,omitempty"`

	TotalMass float64       `json:"total_mass_kg"`
	Materials []MaterialRow `json:"materials"`

	TotalCost            float64 `json:"total_material_cost_usd"`
	RiskIndex            float64 `json:"supply_risk_index"`
	CriticalMassFraction float64 `json:"critical_mass_fraction"`

	// Outputs are the named scalars in host order
	Outputs []pipeline.Output `json:"outputs"`

	Sources Sources `json:"sources"`

	// Filled lists materials taken from the built-in fallback values
	Filled []string `json:"filled_from_fallback,omitempty"`
}

// MaterialRow is the per-material line of a report
type MaterialRow struct {
	Material   string  `json:"material"`
	Fraction   float64 `json:"fraction"`
	Mass       float64 `json:"mass_kg"`
	Price      float64 `json:"price_usd_per_kg"`
	Cost       float64 `json:"cost_usd"`
	RiskScore  float64 `json:"risk_score"`
	EUCritical bool    `json:"eu_critical"`
}

// Sources names where the reference tables came from
type Sources struct {
	Prices string `json:"prices"`
	Risk   string `json:"risk"`
}

// NewReport builds a report from a pipeline and one of its results
func NewReport(model string, p *pipeline.Pipeline, r *pipeline.Result) *Report {
	f := p.Fractions()
	report := &Report{
		ID:                   uuid.NewString(),
		CreatedAt:            time.Now().UTC(),
		Model:                model,
		TotalMass:            r.TotalMass,
		TotalCost:            r.Cost.Total,
		RiskIndex:            r.Risk.Index,
		CriticalMassFraction: r.Risk.CriticalMassFraction,
		Outputs:              r.Outputs(),
		Sources: Sources{
			Prices: p.Prices().Source.String(),
			Risk:   p.Risk().Source.String(),
		},
	}

	for _, m := range types.Materials() {
		report.Materials = append(report.Materials, MaterialRow{
			Material:   m.String(),
			Fraction:   f.Of(m),
			Mass:       r.Masses[m],
			Price:      p.Price(m),
			Cost:       r.Cost.Costs[m],
			RiskScore:  r.Risk.Scores[m],
			EUCritical: p.Risk().For(m).EUCritical,
		})
	}

	filled := make(map[types.Material]bool)
	for _, m := range p.Prices().Filled {
		filled[m] = true
	}
	for _, m := range p.Risk().Filled {
		filled[m] = true
	}
	for _, m := range types.Materials() {
		if filled[m] {
			report.Filled = append(report.Filled, m.String())
		}
	}
	return report
}
