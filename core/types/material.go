// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import "strings"

// Material is one of the fixed raw material categories of a motor
type Material string

const (
	// Copper is the stator winding copper
	Copper Material = "copper"

	// NdFeBMagnet is the rotor permanent magnet
	NdFeBMagnet Material = "ndfeb_magnet"

	// ElectricalSteel is the stator/rotor lamination steel
	ElectricalSteel Material = "electrical_steel"

	// Aluminum is the housing and endcaps
	Aluminum Material = "aluminum"

	// Other is insulation, epoxy, fasteners
	Other Material = "other"
)

// canonical order; every per-material loop walks this
var materials = [...]Material{Copper, NdFeBMagnet, ElectricalSteel, Aluminum, Other}

// short output suffixes
var shortNames = map[Material]string{
	Copper:          "copper",
	NdFeBMagnet:     "magnet",
	ElectricalSteel: "steel",
	Aluminum:        "aluminum",
	Other:           "other",
}

// Materials returns the material set in canonical order
func Materials() []Material {
	out := make([]Material, len(materials))
	copy(out, materials[:])
	return out
}

// String returns the string representation of the material
func (m Material) String() string {
	return string(m)
}

// Short returns the short key used in output names (e.g. "magnet")
func (m Material) Short() string {
	return shortNames[m]
}

// IsValid checks if the material is part of the fixed set
func (m Material) IsValid() bool {
	_, ok := shortNames[m]
	return ok
}

// ParseMaterial resolves a canonical or short material key
func ParseMaterial(s string) (Material, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, m := range materials {
		if key == string(m) || key == shortNames[m] {
			return m, true
		}
	}
	return "", false
}

// MassVector holds a mass in kg per material
type MassVector map[Material]float64

// Total sums the masses in canonical order
func (v MassVector) Total() float64 {
	total := 0.0
	for _, m := range materials {
		total += v[m]
	}
	return total
}

// Clone returns an independent copy
func (v MassVector) Clone() MassVector {
	out := make(MassVector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
