// Package risk scores the supply risk of a motor's raw materials.
//
// Material Risk Score, after the EC critical raw materials methodology and
// Graedel et al. (2012):
//
//	hhi_norm     = hhi / 10000
//	country_risk = 1 - clamp(wgi, 0, 1)
//	MRS          = clamp(hhi_norm × country_risk × (1 - subst) × (1 - recycl), 0, 1)
//
// The motor aggregates are a mass-weighted index (ASRI) and the mass
// fraction of EU-critical materials (CMMF).
package risk

import (
	"math"

	"motor-supplychain/core/reference"
	"motor-supplychain/core/types"
)

// Assessment is the supply risk of one motor
type Assessment struct {
	// Scores is the MRS per material, on [0, 1]
	Scores map[types.Material]float64 `json:"scores"`

	// Index is the aggregate supply risk index (ASRI), on [0, 1]
	Index float64 `json:"index"`

	// CriticalMassFraction is the EU-critical share of the motor mass (CMMF)
	CriticalMassFraction float64 `json:"critical_mass_fraction"`
}

// clamp keeps NaN as NaN
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// MaterialRiskScore returns the MRS of one material
func MaterialRiskScore(ind reference.Indicators) float64 {
	hhiNorm := ind.HHI / 10000.0
	countryRisk := 1.0 - clamp(ind.WGIScore, 0, 1)
	mrs := hhiNorm * countryRisk * (1.0 - ind.Substitutability) * (1.0 - ind.Recyclability)
	return clamp(mrs, 0, 1)
}

// Engine scores mass vectors against a risk table loaded once
type Engine struct {
	indicators map[types.Material]reference.Indicators
	scores     map[types.Material]float64
}

// NewEngine snapshots the table and precomputes the per-material scores
func NewEngine(table *reference.RiskTable) *Engine {
	e := &Engine{
		indicators: make(map[types.Material]reference.Indicators, 5),
		scores:     make(map[types.Material]float64, 5),
	}
	for _, m := range types.Materials() {
		ind := table.For(m)
		e.indicators[m] = ind
		e.scores[m] = MaterialRiskScore(ind)
	}
	return e
}

// Indicators returns the indicators in effect for a material
func (e *Engine) Indicators(m types.Material) reference.Indicators {
	return e.indicators[m]
}

// Evaluate scores one motor. When the total mass is not positive the
// index and the critical fraction are both 0.
func (e *Engine) Evaluate(masses types.MassVector) Assessment {
	a := Assessment{Scores: make(map[types.Material]float64, 5)}
	for _, m := range types.Materials() {
		a.Scores[m] = e.scores[m]
	}

	total := masses.Total()
	if total <= 0 {
		return a
	}

	index := 0.0
	critical := 0.0
	for _, m := range types.Materials() {
		index += a.Scores[m] * masses[m] / total
		if e.indicators[m].EUCritical {
			critical += masses[m]
		}
	}
	a.Index = clamp(index, 0, 1)
	a.CriticalMassFraction = critical / total
	return a
}
