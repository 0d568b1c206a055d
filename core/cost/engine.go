// Package cost computes the raw material cost of one motor unit.
package cost

import (
	"motor-supplychain/core/reference"
	"motor-supplychain/core/types"
)

// Breakdown is the per-material and total material cost [USD]
type Breakdown struct {
	Costs map[types.Material]float64 `json:"costs"`
	Total float64                    `json:"total_material"`
}

// Engine prices mass vectors against a price table loaded once
type Engine struct {
	prices map[types.Material]float64
}

// NewEngine snapshots the table; later changes to the table are not seen
func NewEngine(table *reference.PriceTable) *Engine {
	e := &Engine{prices: make(map[types.Material]float64, 5)}
	for _, m := range types.Materials() {
		e.prices[m] = table.Price(m)
	}
	return e
}

// Override replaces the unit price of one material [USD/kg]
func (e *Engine) Override(m types.Material, price float64) {
	if !m.IsValid() {
		return
	}
	e.prices[m] = price
}

// Price returns the unit price in effect for a material
func (e *Engine) Price(m types.Material) float64 {
	return e.prices[m]
}

// Evaluate returns cost_i = mass_i × price_i and their sum.
// Non-finite masses or prices flow through to the costs.
func (e *Engine) Evaluate(masses types.MassVector) Breakdown {
	b := Breakdown{Costs: make(map[types.Material]float64, 5)}
	for _, m := range types.Materials() {
		c := masses[m] * e.prices[m]
		b.Costs[m] = c
		b.Total += c
	}
	return b
}
