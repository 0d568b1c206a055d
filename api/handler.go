// Package api - HTTP handler for supply chain evaluation
// This handler wraps the pipeline - it contains NO analysis logic.
// All logic is delegated to core packages.
package api

import (
	"motor-supplychain/core/output"
	"motor-supplychain/core/pipeline"
	apperrors "motor-supplychain/internal/errors"
)

// Handler evaluates requests against one loaded pipeline
type Handler struct {
	base pipeline.Options
	p    *pipeline.Pipeline
}

// NewHandler loads the reference tables once for all requests
func NewHandler(opts pipeline.Options) (*Handler, error) {
	p, err := pipeline.New(opts)
	if err != nil {
		return nil, err
	}
	return &Handler{base: opts, p: p}, nil
}

// Pipeline returns the pipeline built from the server options
func (h *Handler) Pipeline() *pipeline.Pipeline {
	return h.p
}

// Evaluate runs one request. Requests without options reuse the shared
// pipeline; otherwise a pipeline is assembled over the same tables.
func (h *Handler) Evaluate(req *EvaluateRequest) (*output.Report, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	p := h.p
	if req.Options != nil {
		opts, err := req.Options.supplyChainOptions().Apply(h.base)
		if err != nil {
			return nil, err
		}
		p = pipeline.NewWithTables(opts.Fractions, h.p.Prices(), h.p.Risk(), opts.PriceOverrides)
	}
	return output.NewReport(req.Name, p, p.Evaluate(*req.Mass)), nil
}

func validateRequest(req *EvaluateRequest) error {
	if req.Mass == nil {
		return apperrors.Input("mass is required")
	}
	return nil
}
