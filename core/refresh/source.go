// Package refresh updates the material price table from a public
// commodity price source. It is a maintenance operation run by an
// operator; pipeline evaluation never calls it.
package refresh

import (
	"context"
	"strings"
	"time"

	apperrors "motor-supplychain/internal/errors"
)

// Source returns recent monthly prices of a commodity indicator,
// denominated in USD per metric ton. Missing months are omitted.
type Source interface {
	// Name identifies the source in logs and reports
	Name() string

	// Fetch returns the most recent values of an indicator
	Fetch(ctx context.Context, indicator string) ([]float64, error)
}

// SourceConfig selects and configures a Source
type SourceConfig struct {
	// Name is "worldbank" or "none"
	Name      string
	BaseURL   string
	Timeout   time.Duration
	MaxValues int
}

// NewSource builds the configured source. "none" (or empty) yields a nil
// Source, which makes Refresher.Run report the missing capability.
func NewSource(cfg SourceConfig) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", "none":
		return nil, nil
	case "worldbank", "world_bank":
		return NewWorldBankSource(WorldBankConfig{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			MaxValues: cfg.MaxValues,
		}), nil
	default:
		return nil, apperrors.Newf(apperrors.TypeConfig, "unknown price source %q (use worldbank or none)", cfg.Name)
	}
}
