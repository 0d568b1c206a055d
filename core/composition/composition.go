// Package composition splits a motor's total mass into raw material masses.
//
// Typical drone-scale BLDC composition: copper windings ~25%, NdFeB rotor
// magnets ~12%, electrical steel laminations ~45%, aluminum housing ~10%,
// and a residual ~8% of insulation, epoxy and fasteners.
package composition

import (
	"math"

	"motor-supplychain/core/types"
)

// Fractions are the configured mass fractions. The "other" fraction is
// never configured; it is derived from the four below.
type Fractions struct {
	Copper   float64 `json:"f_copper" yaml:"f_copper"`
	Magnet   float64 `json:"f_magnet" yaml:"f_magnet"`
	Steel    float64 `json:"f_steel" yaml:"f_steel"`
	Aluminum float64 `json:"f_aluminum" yaml:"f_aluminum"`
}

// DefaultFractions returns the literature-based default split
func DefaultFractions() Fractions {
	return Fractions{
		Copper:   0.25,
		Magnet:   0.12,
		Steel:    0.45,
		Aluminum: 0.10,
	}
}

// Other returns max(0, 1 - sum of the configured fractions).
// When the configured fractions exceed 1 the result is 0 and the composed
// masses no longer add up to the total mass; this is not renormalised.
func (f Fractions) Other() float64 {
	return math.Max(0, 1.0-f.Copper-f.Magnet-f.Steel-f.Aluminum)
}

// Of returns the fraction of a material
func (f Fractions) Of(m types.Material) float64 {
	switch m {
	case types.Copper:
		return f.Copper
	case types.NdFeBMagnet:
		return f.Magnet
	case types.ElectricalSteel:
		return f.Steel
	case types.Aluminum:
		return f.Aluminum
	case types.Other:
		return f.Other()
	default:
		return 0
	}
}

// Compose returns fraction × totalMass for every material.
// totalMass is not validated: negative or NaN values propagate.
func Compose(totalMass float64, f Fractions) types.MassVector {
	out := make(types.MassVector, 5)
	for _, m := range types.Materials() {
		out[m] = f.Of(m) * totalMass
	}
	return out
}
