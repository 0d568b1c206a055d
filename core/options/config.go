package options

import (
	"motor-supplychain/core/composition"
	"motor-supplychain/core/pipeline"
	"motor-supplychain/internal/config"
)

// FromConfig returns the pipeline options of the configuration file
func FromConfig(sc config.SupplyChainConfig) pipeline.Options {
	return pipeline.Options{
		Fractions: composition.Fractions{
			Copper:   sc.FCopper,
			Magnet:   sc.FMagnet,
			Steel:    sc.FSteel,
			Aluminum: sc.FAluminum,
		},
		PricesPath: sc.PricesCSV,
		RiskPath:   sc.RiskCSV,
	}
}
