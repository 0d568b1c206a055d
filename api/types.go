// Package api - API types for supply chain evaluation
// These types define the contract for the /evaluate endpoint.
// The API is stateless and reads the reference tables loaded at startup.
package api

import (
	"motor-supplychain/core/options"
	"motor-supplychain/core/output"
)

// EvaluateRequest is the input to POST /evaluate
type EvaluateRequest struct {
	// Name labels the report
	Name string `json:"name,omitempty"`

	// Mass is the total motor mass [kg]
	Mass *float64 `json:"mass"`

	// Options tune fractions and unit prices for this request only
	Options *RequestOptions `json:"supply_chain_options,omitempty"`
}

// RequestOptions are the per-request pipeline options. Table paths are
// a server setting and cannot be chosen by the client.
type RequestOptions struct {
	FCopper   *float64 `json:"f_copper,omitempty"`
	FMagnet   *float64 `json:"f_magnet,omitempty"`
	FSteel    *float64 `json:"f_steel,omitempty"`
	FAluminum *float64 `json:"f_aluminum,omitempty"`

	// PriceOverrides are keyed by material name or short key [USD/kg]
	PriceOverrides map[string]float64 `json:"price_overrides,omitempty"`
}

func (o *RequestOptions) supplyChainOptions() *options.SupplyChainOptions {
	return &options.SupplyChainOptions{
		FCopper:        o.FCopper,
		FMagnet:        o.FMagnet,
		FSteel:         o.FSteel,
		FAluminum:      o.FAluminum,
		PriceOverrides: o.PriceOverrides,
	}
}

// EvaluateResponse is the output of POST /evaluate
type EvaluateResponse struct {
	*output.Report

	// DurationMs is the server-side evaluation time
	DurationMs int64 `json:"duration_ms"`
}

// CodeNonFiniteResult reports an evaluation whose values overflowed
// to Inf or NaN and cannot be encoded as JSON
const CodeNonFiniteResult = "NON_FINITE_RESULT"

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
