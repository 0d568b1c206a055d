package reference

import "motor-supplychain/core/types"

// Built-in values used whenever a reference file or row is absent.
// Callers only ever receive copies.

var fallbackPrices = map[types.Material]float64{
	types.Copper:          9.50,
	types.NdFeBMagnet:     85.00,
	types.ElectricalSteel: 1.80,
	types.Aluminum:        2.40,
	types.Other:           5.00,
}

var fallbackRisk = map[types.Material]Indicators{
	types.Copper:          {HHI: 1289, WGIScore: 0.65, EUCritical: false, Substitutability: 0.85, Recyclability: 0.43},
	types.NdFeBMagnet:     {HHI: 8547, WGIScore: 0.40, EUCritical: true, Substitutability: 0.15, Recyclability: 0.13},
	types.ElectricalSteel: {HHI: 642, WGIScore: 0.40, EUCritical: false, Substitutability: 0.75, Recyclability: 0.55},
	types.Aluminum:        {HHI: 789, WGIScore: 0.40, EUCritical: false, Substitutability: 0.85, Recyclability: 0.42},
	types.Other:           {HHI: 500, WGIScore: 0.55, EUCritical: false, Substitutability: 0.50, Recyclability: 0.20},
}

// FallbackPrice returns the built-in price of a material [USD/kg]
func FallbackPrice(m types.Material) float64 {
	return fallbackPrices[m]
}

// FallbackIndicators returns the built-in risk indicators of a material
func FallbackIndicators(m types.Material) Indicators {
	return fallbackRisk[m]
}

// FallbackPrices returns the complete built-in price table
func FallbackPrices() *PriceTable {
	t := newPriceTable(Source{Kind: SourceFallback})
	for _, m := range types.Materials() {
		t.Prices[m] = fallbackPrices[m]
		t.Filled = append(t.Filled, m)
	}
	return t
}

// FallbackRisk returns the complete built-in risk table
func FallbackRisk() *RiskTable {
	t := newRiskTable(Source{Kind: SourceFallback})
	for _, m := range types.Materials() {
		t.Indicators[m] = fallbackRisk[m]
		t.Filled = append(t.Filled, m)
	}
	return t
}
