package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "motor-supplychain/internal/errors"
)

const (
	// DefaultWorldBankURL is the World Bank indicator API
	DefaultWorldBankURL = "https://api.worldbank.org/v2/en/indicator"

	// DefaultSeriesFormat maps a packaged commodity code such as PCOPP or
	// PALUM to its monthly USD series, e.g. PCOMMPCOPP.MTL.USD.M
	DefaultSeriesFormat = "PCOMM%s.MTL.USD.M"
)

// WorldBankConfig configures the World Bank client
type WorldBankConfig struct {
	// BaseURL is the indicator endpoint
	BaseURL string

	// Timeout bounds each request
	Timeout time.Duration

	// MaxValues is the number of most recent values requested
	MaxValues int

	// SeriesFormat turns a table indicator into a series ID; "%s" sends
	// the indicator unchanged
	SeriesFormat string
}

// DefaultWorldBankConfig returns production defaults
func DefaultWorldBankConfig() WorldBankConfig {
	return WorldBankConfig{
		BaseURL:      DefaultWorldBankURL,
		Timeout:      10 * time.Second,
		MaxValues:    12,
		SeriesFormat: DefaultSeriesFormat,
	}
}

// WorldBankSource reads monthly commodity prices from the World Bank API.
// No authentication is required.
type WorldBankSource struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	maxValues  int
	series     string
}

// NewWorldBankSource creates a client; zero config fields take defaults
func NewWorldBankSource(cfg WorldBankConfig) *WorldBankSource {
	def := DefaultWorldBankConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxValues <= 0 {
		cfg.MaxValues = def.MaxValues
	}
	if cfg.SeriesFormat == "" {
		cfg.SeriesFormat = def.SeriesFormat
	}

	return &WorldBankSource{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		maxValues: cfg.MaxValues,
		series:    cfg.SeriesFormat,
	}
}

// Name implements Source
func (s *WorldBankSource) Name() string {
	return "worldbank"
}

// SeriesID returns the API series requested for a table indicator
func (s *WorldBankSource) SeriesID(indicator string) string {
	return fmt.Sprintf(s.series, indicator)
}

type worldBankRecord struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Fetch implements Source. The API answers [metadata, [records]]; an
// error payload has no second element and yields no values.
func (s *WorldBankSource) Fetch(ctx context.Context, indicator string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s?format=json&per_page=%d&mrv=%d",
		s.baseURL, url.PathEscape(s.SeriesID(indicator)), s.maxValues, s.maxValues)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, apperrors.Internal("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Network("failed to fetch indicator", err).WithContext("indicator", indicator)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(apperrors.TypeNetwork, "indicator API returned status %d", resp.StatusCode).
			WithContext("indicator", indicator)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Parsing("failed to decode indicator response", err).WithContext("indicator", indicator)
	}
	if len(payload) < 2 {
		return nil, nil
	}

	var records []worldBankRecord
	if err := json.Unmarshal(payload[1], &records); err != nil {
		return nil, apperrors.Parsing("failed to decode indicator records", err).WithContext("indicator", indicator)
	}

	values := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Value != nil {
			values = append(values, *r.Value)
		}
	}
	return values, nil
}
