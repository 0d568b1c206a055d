package pipeline

import (
	"motor-supplychain/core/cost"
	"motor-supplychain/core/risk"
	"motor-supplychain/core/types"
)

// Result is one evaluation of the pipeline
type Result struct {
	TotalMass float64          `json:"total_mass"`
	Masses    types.MassVector `json:"masses"`
	Cost      cost.Breakdown   `json:"cost"`
	Risk      risk.Assessment  `json:"risk"`
}

// Output is one named scalar exposed to the host
type Output struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Output names
const (
	OutputTotalCost        = "cost:total_material"
	OutputRiskIndex        = "risk:index"
	OutputCriticalFraction = "risk:critical_mass_fraction"
)

// MassOutput returns the output name of a material mass
func MassOutput(m types.Material) string { return "mass:" + m.Short() }

// CostOutput returns the output name of a material cost
func CostOutput(m types.Material) string { return "cost:" + m.Short() }

// ScoreOutput returns the output name of a material risk score
func ScoreOutput(m types.Material) string { return "risk:score:" + m.Short() }

// Outputs returns the 18 host-facing scalars in a stable order
func (r *Result) Outputs() []Output {
	out := make([]Output, 0, 18)
	for _, m := range types.Materials() {
		out = append(out, Output{Name: MassOutput(m), Value: r.Masses[m], Unit: "kg"})
	}
	for _, m := range types.Materials() {
		out = append(out, Output{Name: CostOutput(m), Value: r.Cost.Costs[m], Unit: "USD"})
	}
	out = append(out, Output{Name: OutputTotalCost, Value: r.Cost.Total, Unit: "USD"})
	for _, m := range types.Materials() {
		out = append(out, Output{Name: ScoreOutput(m), Value: r.Risk.Scores[m], Unit: "-"})
	}
	out = append(out,
		Output{Name: OutputRiskIndex, Value: r.Risk.Index, Unit: "-"},
		Output{Name: OutputCriticalFraction, Value: r.Risk.CriticalMassFraction, Unit: "-"},
	)
	return out
}

// Values returns the outputs keyed by name
func (r *Result) Values() map[string]float64 {
	outs := r.Outputs()
	m := make(map[string]float64, len(outs))
	for _, o := range outs {
		m[o.Name] = o.Value
	}
	return m
}
