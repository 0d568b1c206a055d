package risk

import (
	"math"
	"testing"

	"motor-supplychain/core/reference"
	"motor-supplychain/core/types"
)

func nearlyEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func scenarioMasses() types.MassVector {
	return types.MassVector{
		types.Copper:          0.25,
		types.NdFeBMagnet:     0.12,
		types.ElectricalSteel: 0.45,
		types.Aluminum:        0.10,
		types.Other:           0.08,
	}
}

func TestMaterialRiskScoreFallbackValues(t *testing.T) {
	copper := MaterialRiskScore(reference.FallbackIndicators(types.Copper))
	nearlyEqual(t, "copper", copper, 0.1289*0.35*0.15*0.57, 1e-12)
	nearlyEqual(t, "copper rounded", copper, 0.00386, 5e-6)

	magnet := MaterialRiskScore(reference.FallbackIndicators(types.NdFeBMagnet))
	nearlyEqual(t, "magnet", magnet, 0.8547*0.60*0.85*0.87, 1e-12)
	nearlyEqual(t, "magnet rounded", magnet, 0.37929, 5e-6)
}

func TestMaterialRiskScoreBounds(t *testing.T) {
	tests := []struct {
		name string
		ind  reference.Indicators
		want float64
	}{
		{"monopoly worst governance", reference.Indicators{HHI: 10000, WGIScore: 0}, 1},
		{"perfect competition", reference.Indicators{HHI: 0, WGIScore: 0}, 0},
		{"best governance", reference.Indicators{HHI: 10000, WGIScore: 1}, 0},
		{"governance above range clamps", reference.Indicators{HHI: 10000, WGIScore: 1.7}, 0},
		{"governance below range clamps", reference.Indicators{HHI: 5000, WGIScore: -0.3}, 0.5},
		{"fully substitutable", reference.Indicators{HHI: 9000, WGIScore: 0.2, Substitutability: 1}, 0},
		{"fully recyclable", reference.Indicators{HHI: 9000, WGIScore: 0.2, Recyclability: 1}, 0},
		{"over-range hhi clamps", reference.Indicators{HHI: 40000, WGIScore: 0}, 1},
		{"negative product clamps", reference.Indicators{HHI: 5000, WGIScore: 0, Substitutability: 1.5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaterialRiskScore(tt.ind)
			if got < 0 || got > 1 {
				t.Fatalf("MRS = %v out of [0,1]", got)
			}
			nearlyEqual(t, "MRS", got, tt.want, 1e-12)
		})
	}
}

func TestEvaluateScenario(t *testing.T) {
	engine := NewEngine(reference.FallbackRisk())
	masses := scenarioMasses()
	a := engine.Evaluate(masses)

	want := 0.0
	for _, m := range types.Materials() {
		want += MaterialRiskScore(reference.FallbackIndicators(m)) * masses[m]
	}
	nearlyEqual(t, "ASRI", a.Index, want, 1e-12)
	nearlyEqual(t, "CMMF", a.CriticalMassFraction, 0.12, 1e-12)
	nearlyEqual(t, "MRS copper", a.Scores[types.Copper], 0.00386, 5e-6)
	nearlyEqual(t, "MRS magnet", a.Scores[types.NdFeBMagnet], 0.37929, 5e-6)

	if a.Index < 0 || a.Index > 1 {
		t.Errorf("ASRI = %v out of [0,1]", a.Index)
	}
}

func TestEvaluateZeroMass(t *testing.T) {
	engine := NewEngine(reference.FallbackRisk())

	for _, masses := range []types.MassVector{
		{},
		{types.Copper: 0, types.NdFeBMagnet: 0, types.ElectricalSteel: 0, types.Aluminum: 0, types.Other: 0},
		{types.Copper: -1, types.NdFeBMagnet: 0.5},
	} {
		a := engine.Evaluate(masses)
		if a.Index != 0 || a.CriticalMassFraction != 0 {
			t.Errorf("masses %v: ASRI=%v CMMF=%v, want exactly 0", masses, a.Index, a.CriticalMassFraction)
		}
		if len(a.Scores) != 5 {
			t.Errorf("scores should still be reported, got %v", a.Scores)
		}
	}
}

func TestEvaluateScaleInvariant(t *testing.T) {
	engine := NewEngine(reference.FallbackRisk())
	small := engine.Evaluate(scenarioMasses())

	big := scenarioMasses()
	for m := range big {
		big[m] *= 37.5
	}
	large := engine.Evaluate(big)

	nearlyEqual(t, "ASRI", large.Index, small.Index, 1e-12)
	nearlyEqual(t, "CMMF", large.CriticalMassFraction, small.CriticalMassFraction, 1e-12)
}

func TestEvaluateCriticalFlagsFromTable(t *testing.T) {
	table := reference.FallbackRisk()
	ind := table.Indicators[types.Copper]
	ind.EUCritical = true
	table.Indicators[types.Copper] = ind

	a := NewEngine(table).Evaluate(scenarioMasses())
	nearlyEqual(t, "CMMF", a.CriticalMassFraction, 0.25+0.12, 1e-12)
}

func TestEvaluateNaNPropagates(t *testing.T) {
	masses := scenarioMasses()
	masses[types.Copper] = math.NaN()

	a := NewEngine(reference.FallbackRisk()).Evaluate(masses)
	if !math.IsNaN(a.Index) || !math.IsNaN(a.CriticalMassFraction) {
		t.Errorf("expected NaN aggregates, got ASRI=%v CMMF=%v", a.Index, a.CriticalMassFraction)
	}
}
