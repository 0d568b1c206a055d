// Package options reads motor model definition files. A model file names
// the motor, its mass, and whether the supply chain analysis runs; when it
// does, supply_chain_options tune the pipeline. YAML and HCL are accepted.
package options

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"motor-supplychain/core/pipeline"
	"motor-supplychain/core/types"
	apperrors "motor-supplychain/internal/errors"
)

// Model is one motor model definition
type Model struct {
	// Name identifies the motor in reports
	Name string `yaml:"name" hcl:"name,optional"`

	// Mass is the total motor mass [kg]
	Mass float64 `yaml:"mass" hcl:"mass,optional"`

	// SupplyChain enables the supply chain analysis group
	SupplyChain bool `yaml:"supply_chain" hcl:"supply_chain,optional"`

	// SupplyChainOptions are passed through to the pipeline
	SupplyChainOptions *SupplyChainOptions `yaml:"supply_chain_options" hcl:"supply_chain_options,block"`
}

// SupplyChainOptions tune the pipeline. Unset fractions keep the base value.
type SupplyChainOptions struct {
	FCopper   *float64 `yaml:"f_copper" hcl:"f_copper,optional"`
	FMagnet   *float64 `yaml:"f_magnet" hcl:"f_magnet,optional"`
	FSteel    *float64 `yaml:"f_steel" hcl:"f_steel,optional"`
	FAluminum *float64 `yaml:"f_aluminum" hcl:"f_aluminum,optional"`

	PricesCSV string `yaml:"prices_csv" hcl:"prices_csv,optional"`
	RiskCSV   string `yaml:"risk_csv" hcl:"risk_csv,optional"`

	// PriceOverrides are keyed by material name or short key [USD/kg]
	PriceOverrides map[string]float64 `yaml:"price_overrides" hcl:"price_overrides,optional"`
}

// Load reads a model file, choosing the decoder by extension
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("model file", path)
		}
		return nil, apperrors.Wrap(apperrors.TypeInput, "read model file", err).
			WithContext("path", path)
	}
	return Parse(path, data)
}

// Parse decodes a model definition. filename selects the format:
// .yaml/.yml for YAML, .hcl for HCL.
func Parse(filename string, data []byte) (*Model, error) {
	var m Model
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, apperrors.Wrap(apperrors.TypeParsing, "decode YAML model", err).
				WithContext("path", filename)
		}
	case ".hcl":
		if err := hclsimple.Decode(filename, data, nil, &m); err != nil {
			return nil, apperrors.Wrap(apperrors.TypeParsing, "decode HCL model", err).
				WithContext("path", filename)
		}
	default:
		return nil, apperrors.NotSupported("model format " + filepath.Ext(filename)).
			WithContext("path", filename)
	}

	return &m, nil
}

// Components returns the component identifiers the model instantiates
func (m *Model) Components() []string {
	if !m.SupplyChain {
		return nil
	}
	return []string{pipeline.ComponentSupplyChain}
}

// PipelineOptions layers the model's supply chain options over base
func (m *Model) PipelineOptions(base pipeline.Options) (pipeline.Options, error) {
	if m.SupplyChainOptions == nil {
		return base, nil
	}
	return m.SupplyChainOptions.Apply(base)
}

// Apply returns base with every set option replaced
func (o *SupplyChainOptions) Apply(base pipeline.Options) (pipeline.Options, error) {
	out := base
	setFraction(&out.Fractions.Copper, o.FCopper)
	setFraction(&out.Fractions.Magnet, o.FMagnet)
	setFraction(&out.Fractions.Steel, o.FSteel)
	setFraction(&out.Fractions.Aluminum, o.FAluminum)

	if o.PricesCSV != "" {
		out.PricesPath = o.PricesCSV
	}
	if o.RiskCSV != "" {
		out.RiskPath = o.RiskCSV
	}

	if len(o.PriceOverrides) > 0 {
		merged := make(map[types.Material]float64, len(base.PriceOverrides)+len(o.PriceOverrides))
		for m, p := range base.PriceOverrides {
			merged[m] = p
		}
		keys := make([]string, 0, len(o.PriceOverrides))
		for k := range o.PriceOverrides {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m, ok := types.ParseMaterial(k)
			if !ok {
				return base, apperrors.Newf(apperrors.TypeInput, "unknown material %q in price_overrides", k)
			}
			merged[m] = o.PriceOverrides[k]
		}
		out.PriceOverrides = merged
	}
	return out, nil
}

func setFraction(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
