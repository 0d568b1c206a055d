// Package reference loads the material price and supply risk tables.
//
// Both tables are total over the fixed material set: rows read from the
// reference file take precedence and built-in fallbacks fill every gap, so
// an evaluation can always run even with no reference files present.
package reference

import (
	"motor-supplychain/core/types"
)

// SourceKind tells where a table was read from
type SourceKind int

const (
	SourceFile     SourceKind = iota // operator-provided file
	SourceBuiltin                    // packaged default table
	SourceFallback                   // hard-coded fallback values only
)

// String returns the source name
func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceBuiltin:
		return "builtin"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Source identifies the origin of a loaded table
type Source struct {
	Kind SourceKind `json:"kind"`
	Path string     `json:"path,omitempty"`
}

// String returns "kind" or "kind:path"
func (s Source) String() string {
	if s.Path == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + ":" + s.Path
}

// PriceTable maps every material to a unit price [USD/kg]
type PriceTable struct {
	Prices map[types.Material]float64 `json:"prices"`

	// Indicator is the commodity indicator declared per material, if any
	Indicator map[types.Material]string `json:"indicator,omitempty"`

	Source Source `json:"source"`

	// Filled lists the materials taken from the fallback table
	Filled []types.Material `json:"filled,omitempty"`
}

func newPriceTable(src Source) *PriceTable {
	return &PriceTable{
		Prices:    make(map[types.Material]float64, 5),
		Indicator: make(map[types.Material]string),
		Source:    src,
	}
}

// Price returns the unit price of a material
func (t *PriceTable) Price(m types.Material) float64 {
	if p, ok := t.Prices[m]; ok {
		return p
	}
	return fallbackPrices[m]
}

// Clone returns an independent copy
func (t *PriceTable) Clone() *PriceTable {
	out := newPriceTable(t.Source)
	for k, v := range t.Prices {
		out.Prices[k] = v
	}
	for k, v := range t.Indicator {
		out.Indicator[k] = v
	}
	out.Filled = append(out.Filled, t.Filled...)
	return out
}

// Indicators are the supply risk inputs of one material
type Indicators struct {
	// HHI is the market concentration index (0-10000)
	HHI float64 `json:"hhi"`

	// WGIScore is the governance score (0-1, 1 = best)
	WGIScore float64 `json:"wgi_score"`

	// EUCritical flags the material as an EU critical raw material
	EUCritical bool `json:"eu_critical"`

	Substitutability float64 `json:"substitutability"`
	Recyclability    float64 `json:"recyclability"`
}

// RiskTable maps every material to its risk indicators
type RiskTable struct {
	Indicators map[types.Material]Indicators `json:"indicators"`
	Source     Source                        `json:"source"`
	Filled     []types.Material              `json:"filled,omitempty"`
}

func newRiskTable(src Source) *RiskTable {
	return &RiskTable{
		Indicators: make(map[types.Material]Indicators, 5),
		Source:     src,
	}
}

// For returns the indicators of a material
func (t *RiskTable) For(m types.Material) Indicators {
	if ind, ok := t.Indicators[m]; ok {
		return ind
	}
	return fallbackRisk[m]
}
