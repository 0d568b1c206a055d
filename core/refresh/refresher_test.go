package refresh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"motor-supplychain/core/reference"
	"motor-supplychain/core/types"
	apperrors "motor-supplychain/internal/errors"
)

// fakeSource answers from a fixed map; unknown indicators fail
type fakeSource struct {
	values map[string][]float64
	calls  []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context, indicator string) ([]float64, error) {
	f.calls = append(f.calls, indicator)
	v, ok := f.values[indicator]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return v, nil
}

func fixedClock() time.Time {
	return time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
}

const pricesCSV = `# operator price table
material,price_usd_per_kg,world_bank_indicator,year
copper,9.50,PCOPP,2024
ndfeb_magnet,85.00,,2024
electrical_steel,1.80,,2024
aluminum,2.40,PALUM,2024
other,5.00,PNONE,2024
`

func writePrices(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "material_prices.csv")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunUpdatesIndicatorRows(t *testing.T) {
	path := writePrices(t, pricesCSV)
	src := &fakeSource{values: map[string][]float64{
		"PCOPP": {9000, 9500, 10000},
		"PALUM": {2500.12345},
		"PNONE": {},
	}}

	result, err := NewRefresher(src, WithClock(fixedClock)).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Count(OutcomeUpdated) != 2 || result.Count(OutcomeSkipped) != 2 || result.Count(OutcomeFailed) != 1 {
		t.Errorf("outcomes: updated=%d skipped=%d failed=%d",
			result.Count(OutcomeUpdated), result.Count(OutcomeSkipped), result.Count(OutcomeFailed))
	}
	if result.Year != 2026 || result.Source != "fake" {
		t.Errorf("result header = %+v", result)
	}

	// the rewritten file loads with the refreshed values
	table, err := reference.LoadPrices(path)
	if err != nil {
		t.Fatalf("LoadPrices after refresh: %v", err)
	}
	if got := table.Price(types.Copper); got != 9.5 {
		t.Errorf("copper = %v, want 9.5 (mean 9500 USD/t)", got)
	}
	if got := table.Price(types.Aluminum); got != 2.5001 {
		t.Errorf("aluminum = %v, want 2.5001 (rounded to 4 decimals)", got)
	}
	if got := table.Price(types.NdFeBMagnet); got != 85 {
		t.Errorf("magnet = %v, want unchanged 85", got)
	}
	if got := table.Price(types.Other); got != 5 {
		t.Errorf("other = %v, want unchanged 5 (no data)", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "2024") {
		t.Errorf("every row should carry the current year:\n%s", data)
	}
	if strings.Count(string(data), ",2026") != 5 {
		t.Errorf("expected 5 rows stamped 2026:\n%s", data)
	}
	if !strings.Contains(string(data), "ndfeb_magnet,85.00,,2026") {
		t.Errorf("retained prices should keep their text:\n%s", data)
	}
}

func TestRunFetchFailureKeepsPrice(t *testing.T) {
	path := writePrices(t, pricesCSV)
	src := &fakeSource{values: map[string][]float64{"PALUM": {2000}}}

	result, err := NewRefresher(src, WithClock(fixedClock)).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run must complete despite per-material failures: %v", err)
	}

	var copper Update
	for _, u := range result.Updates {
		if u.Material == "copper" {
			copper = u
		}
	}
	if copper.Outcome != OutcomeFailed || copper.Price != 9.5 || !strings.Contains(copper.Error, "connection refused") {
		t.Errorf("copper update = %+v", copper)
	}

	table, err := reference.LoadPrices(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Price(types.Copper) != 9.5 || table.Price(types.Aluminum) != 2 {
		t.Errorf("copper=%v aluminum=%v", table.Price(types.Copper), table.Price(types.Aluminum))
	}
}

func TestRunAddsYearColumn(t *testing.T) {
	path := writePrices(t, "material,price_usd_per_kg\ncopper,9.5\n")

	if _, err := NewRefresher(&fakeSource{}, WithClock(fixedClock)).Run(context.Background(), path); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "material,price_usd_per_kg,year\ncopper,9.5,2026\n" {
		t.Errorf("unexpected file:\n%s", data)
	}
}

func TestRunWithoutSourceIsNotSupported(t *testing.T) {
	path := writePrices(t, pricesCSV)

	_, err := NewRefresher(nil).Run(context.Background(), path)
	if !apperrors.IsType(err, apperrors.TypeNotSupported) {
		t.Fatalf("expected NOT_SUPPORTED, got %v", err)
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		hint, _ := appErr.Context["hint"].(string)
		if !strings.Contains(hint, "refresh.source") {
			t.Errorf("hint should explain how to enable the source: %q", hint)
		}
	}

	data, _ := os.ReadFile(path)
	if string(data) != pricesCSV {
		t.Error("file must not be touched when refresh is unavailable")
	}
}

func TestRunFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		errType apperrors.Type
	}{
		{"empty path", func(t *testing.T) string { return "" }, apperrors.TypeInput},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.csv") }, apperrors.TypeNotFound},
		{"no header", func(t *testing.T) string { return writePrices(t, "# empty\n") }, apperrors.TypeParsing},
		{"no price column", func(t *testing.T) string { return writePrices(t, "material,cost\ncopper,1\n") }, apperrors.TypeParsing},
		{"bad price", func(t *testing.T) string { return writePrices(t, "material,price_usd_per_kg\ncopper,lots\n") }, apperrors.TypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRefresher(&fakeSource{}).Run(context.Background(), tt.path(t))
			if !apperrors.IsType(err, tt.errType) {
				t.Errorf("expected %s, got %v", tt.errType, err)
			}
		})
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	path := writePrices(t, pricesCSV)
	src := &fakeSource{values: map[string][]float64{"PCOPP": {8000}}}

	if _, err := NewRefresher(src, WithMetrics(metrics), WithClock(fixedClock)).Run(context.Background(), path); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := testutil.ToFloat64(metrics.outcomes.WithLabelValues("copper", "updated")); got != 1 {
		t.Errorf("copper updated = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.outcomes.WithLabelValues("aluminum", "failed")); got != 1 {
		t.Errorf("aluminum failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.outcomes.WithLabelValues("ndfeb_magnet", "skipped")); got != 1 {
		t.Errorf("magnet skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.prices.WithLabelValues("copper")); got != 8 {
		t.Errorf("copper price gauge = %v, want 8", got)
	}
}
