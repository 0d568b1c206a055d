// Package pipeline assembles composition, cost and risk into the motor
// supply chain analysis. Reference tables are loaded once by New; every
// Evaluate is a pure function of the mass input.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"motor-supplychain/core/composition"
	"motor-supplychain/core/cost"
	"motor-supplychain/core/reference"
	"motor-supplychain/core/risk"
	"motor-supplychain/core/types"
	"motor-supplychain/internal/logging"
)

// Options configure one pipeline instance
type Options struct {
	Fractions composition.Fractions `json:"fractions"`

	// PricesPath is the price table; empty uses the packaged one
	PricesPath string `json:"prices_csv,omitempty"`

	// RiskPath is the risk table; empty uses the packaged one
	RiskPath string `json:"risk_csv,omitempty"`

	// PriceOverrides replace individual unit prices [USD/kg]
	PriceOverrides map[types.Material]float64 `json:"price_overrides,omitempty"`
}

// DefaultOptions returns the default fractions and packaged tables
func DefaultOptions() Options {
	return Options{Fractions: composition.DefaultFractions()}
}

// Pipeline is a configured supply chain analysis
type Pipeline struct {
	fractions composition.Fractions
	prices    *reference.PriceTable
	risk      *reference.RiskTable
	cost      *cost.Engine
	scorer    *risk.Engine
}

// New loads the reference tables and builds the stages
func New(opts Options) (*Pipeline, error) {
	prices, err := reference.LoadPrices(opts.PricesPath)
	if err != nil {
		return nil, fmt.Errorf("load price table: %w", err)
	}
	riskTable, err := reference.LoadRisk(opts.RiskPath)
	if err != nil {
		return nil, fmt.Errorf("load risk table: %w", err)
	}
	return NewWithTables(opts.Fractions, prices, riskTable, opts.PriceOverrides), nil
}

// NewWithTables builds a pipeline from already loaded tables
func NewWithTables(f composition.Fractions, prices *reference.PriceTable, riskTable *reference.RiskTable, overrides map[types.Material]float64) *Pipeline {
	p := &Pipeline{
		fractions: f,
		prices:    prices,
		risk:      riskTable,
		cost:      cost.NewEngine(prices),
		scorer:    risk.NewEngine(riskTable),
	}
	for _, m := range types.Materials() {
		if price, ok := overrides[m]; ok {
			p.cost.Override(m, price)
		}
	}

	logging.Debug("supply chain pipeline configured",
		zap.Float64("f_other", f.Other()),
		zap.Stringer("prices", prices.Source),
		zap.Stringer("risk", riskTable.Source),
	)
	return p
}

// Fractions returns the configured mass fractions
func (p *Pipeline) Fractions() composition.Fractions {
	return p.fractions
}

// Prices returns the loaded price table
func (p *Pipeline) Prices() *reference.PriceTable {
	return p.prices
}

// Risk returns the loaded risk table
func (p *Pipeline) Risk() *reference.RiskTable {
	return p.risk
}

// Price returns the unit price in effect, overrides included
func (p *Pipeline) Price(m types.Material) float64 {
	return p.cost.Price(m)
}

// OverridePrice replaces one unit price for subsequent evaluations
func (p *Pipeline) OverridePrice(m types.Material, price float64) {
	p.cost.Override(m, price)
}

// Evaluate runs composition, then cost and risk on the same masses
func (p *Pipeline) Evaluate(totalMass float64) *Result {
	masses := composition.Compose(totalMass, p.fractions)
	return &Result{
		TotalMass: totalMass,
		Masses:    masses,
		Cost:      p.cost.Evaluate(masses),
		Risk:      p.scorer.Evaluate(masses),
	}
}
