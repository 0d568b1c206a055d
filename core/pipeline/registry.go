package pipeline

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"motor-supplychain/core/composition"
	"motor-supplychain/core/cost"
	"motor-supplychain/core/reference"
	"motor-supplychain/core/risk"
	"motor-supplychain/core/types"
	apperrors "motor-supplychain/internal/errors"
)

// Component identifiers
const (
	ComponentSupplyChain = "motor.supply_chain"
	ComponentComposition = "motor.supply_chain.material_composition"
	ComponentCost        = "motor.supply_chain.material_cost"
	ComponentRisk        = "motor.supply_chain.supply_risk"
)

// InputMotorMass is the host input consumed by the group and composition
const InputMotorMass = "motor:mass"

// Component is a stage a host framework can construct by name and sample
type Component interface {
	// Name returns the registered identifier
	Name() string

	// Inputs returns the input names the component reads
	Inputs() []string

	// Evaluate maps named inputs to named outputs
	Evaluate(inputs map[string]float64) (map[string]float64, error)
}

// Factory builds a component from pipeline options
type Factory func(opts Options) (Component, error)

// Registry manages component factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("component already registered: %s", name)
	}
	r.factories[name] = factory
	return nil
}

// Build constructs the named component
func (r *Registry) Build(name string, opts Options) (Component, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound("component", name)
	}
	return factory(opts)
}

// Names returns the registered identifiers, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry with the built-in components
func Default() *Registry {
	return defaultRegistry
}

func init() {
	mustRegister(ComponentSupplyChain, func(opts Options) (Component, error) {
		p, err := New(opts)
		if err != nil {
			return nil, err
		}
		return &supplyChainComponent{p: p}, nil
	})
	mustRegister(ComponentComposition, func(opts Options) (Component, error) {
		return &compositionComponent{f: opts.Fractions}, nil
	})
	mustRegister(ComponentCost, func(opts Options) (Component, error) {
		prices, err := reference.LoadPrices(opts.PricesPath)
		if err != nil {
			return nil, err
		}
		engine := cost.NewEngine(prices)
		for m, price := range opts.PriceOverrides {
			engine.Override(m, price)
		}
		return &costComponent{engine: engine}, nil
	})
	mustRegister(ComponentRisk, func(opts Options) (Component, error) {
		table, err := reference.LoadRisk(opts.RiskPath)
		if err != nil {
			return nil, err
		}
		return &riskComponent{engine: risk.NewEngine(table)}, nil
	})
}

func mustRegister(name string, f Factory) {
	if err := defaultRegistry.Register(name, f); err != nil {
		panic(err)
	}
}

func massInputs() []string {
	names := make([]string, 0, 5)
	for _, m := range types.Materials() {
		names = append(names, MassOutput(m))
	}
	return names
}

func readInput(inputs map[string]float64, name string) (float64, error) {
	v, ok := inputs[name]
	if !ok {
		return math.NaN(), apperrors.Newf(apperrors.TypeInput, "missing input %q", name)
	}
	return v, nil
}

func readMasses(inputs map[string]float64) (types.MassVector, error) {
	masses := make(types.MassVector, 5)
	for _, m := range types.Materials() {
		v, err := readInput(inputs, MassOutput(m))
		if err != nil {
			return nil, err
		}
		masses[m] = v
	}
	return masses, nil
}

type supplyChainComponent struct {
	p *Pipeline
}

func (c *supplyChainComponent) Name() string     { return ComponentSupplyChain }
func (c *supplyChainComponent) Inputs() []string { return []string{InputMotorMass} }

func (c *supplyChainComponent) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	mass, err := readInput(inputs, InputMotorMass)
	if err != nil {
		return nil, err
	}
	return c.p.Evaluate(mass).Values(), nil
}

type compositionComponent struct {
	f composition.Fractions
}

func (c *compositionComponent) Name() string     { return ComponentComposition }
func (c *compositionComponent) Inputs() []string { return []string{InputMotorMass} }

func (c *compositionComponent) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	mass, err := readInput(inputs, InputMotorMass)
	if err != nil {
		return nil, err
	}
	masses := composition.Compose(mass, c.f)
	out := make(map[string]float64, 5)
	for _, m := range types.Materials() {
		out[MassOutput(m)] = masses[m]
	}
	return out, nil
}

type costComponent struct {
	engine *cost.Engine
}

func (c *costComponent) Name() string     { return ComponentCost }
func (c *costComponent) Inputs() []string { return massInputs() }

func (c *costComponent) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	masses, err := readMasses(inputs)
	if err != nil {
		return nil, err
	}
	b := c.engine.Evaluate(masses)
	out := make(map[string]float64, 6)
	for _, m := range types.Materials() {
		out[CostOutput(m)] = b.Costs[m]
	}
	out[OutputTotalCost] = b.Total
	return out, nil
}

type riskComponent struct {
	engine *risk.Engine
}

func (c *riskComponent) Name() string     { return ComponentRisk }
func (c *riskComponent) Inputs() []string { return massInputs() }

func (c *riskComponent) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	masses, err := readMasses(inputs)
	if err != nil {
		return nil, err
	}
	a := c.engine.Evaluate(masses)
	out := make(map[string]float64, 7)
	for _, m := range types.Materials() {
		out[ScoreOutput(m)] = a.Scores[m]
	}
	out[OutputRiskIndex] = a.Index
	out[OutputCriticalFraction] = a.CriticalMassFraction
	return out, nil
}
