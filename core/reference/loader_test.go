package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"motor-supplychain/core/types"
	apperrors "motor-supplychain/internal/errors"
	"motor-supplychain/internal/logging"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	prev := logging.Logger
	t.Cleanup(func() { logging.Replace(prev) })
	core, logs := observer.New(zapcore.WarnLevel)
	logging.Replace(zap.New(core))
	return logs
}

func TestLoadPricesBuiltinMatchesFallback(t *testing.T) {
	table, err := LoadPrices("")
	if err != nil {
		t.Fatalf("LoadPrices: %v", err)
	}
	if table.Source.Kind != SourceBuiltin {
		t.Errorf("Source = %v, want builtin", table.Source)
	}
	if len(table.Filled) != 0 {
		t.Errorf("builtin table should be complete, filled %v", table.Filled)
	}
	if diff := cmp.Diff(FallbackPrices().Prices, table.Prices); diff != "" {
		t.Errorf("builtin prices differ from fallback (-want +got):\n%s", diff)
	}
	if table.Indicator[types.Copper] != "PCOPP" || table.Indicator[types.Aluminum] != "PALUM" {
		t.Errorf("unexpected indicators: %v", table.Indicator)
	}
	if _, ok := table.Indicator[types.NdFeBMagnet]; ok {
		t.Error("magnet has no indicator in the builtin table")
	}
}

func TestLoadBuiltinTwiceIsIdentical(t *testing.T) {
	p1, err := LoadPrices("")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := LoadPrices("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p1, p2); diff != "" {
		t.Errorf("price loads differ:\n%s", diff)
	}

	r1, err := LoadRisk("")
	if err != nil {
		t.Fatal(err)
	}
	r2, err := LoadRisk("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("risk loads differ:\n%s", diff)
	}
	if diff := cmp.Diff(FallbackRisk().Indicators, r1.Indicators); diff != "" {
		t.Errorf("builtin risk differs from fallback (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFileUsesFallbackWithWarning(t *testing.T) {
	logs := observeWarnings(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	prices, err := LoadPrices(missing)
	if err != nil {
		t.Fatalf("LoadPrices: %v", err)
	}
	if prices.Source.Kind != SourceFallback {
		t.Errorf("Source = %v, want fallback", prices.Source)
	}
	if diff := cmp.Diff(fallbackPrices, prices.Prices); diff != "" {
		t.Errorf("prices mismatch:\n%s", diff)
	}

	risk, err := LoadRisk(missing)
	if err != nil {
		t.Fatalf("LoadRisk: %v", err)
	}
	if diff := cmp.Diff(fallbackRisk, risk.Indicators); diff != "" {
		t.Errorf("risk mismatch:\n%s", diff)
	}

	if n := logs.FilterMessage("reference table not found, using built-in fallback values").Len(); n != 2 {
		t.Errorf("expected 2 not-found warnings, got %d", n)
	}
}

func TestLoadPricesPartialFileFillsGaps(t *testing.T) {
	logs := observeWarnings(t)
	path := writeFile(t, "prices.csv", `# operator prices
material,price_usd_per_kg,world_bank_indicator,year
copper,10.25,PCOPP,2025
magnet,90,,2025

steel,2.0,,2025
aluminum,2.75,PALUM,2025
`)

	table, err := LoadPrices(path)
	if err != nil {
		t.Fatalf("LoadPrices: %v", err)
	}

	want := map[types.Material]float64{
		types.Copper:          10.25,
		types.NdFeBMagnet:     90,
		types.ElectricalSteel: 2.0,
		types.Aluminum:        2.75,
		types.Other:           5.00,
	}
	if diff := cmp.Diff(want, table.Prices); diff != "" {
		t.Errorf("prices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]types.Material{types.Other}, table.Filled); diff != "" {
		t.Errorf("filled mismatch:\n%s", diff)
	}
	if table.Source.Kind != SourceFile || table.Source.Path != path {
		t.Errorf("Source = %v", table.Source)
	}
	if logs.FilterMessage("reference table incomplete, filled from built-in fallback values").Len() != 1 {
		t.Error("expected a fill warning")
	}
}

func TestLoadRiskMissingRowUsesExactFallback(t *testing.T) {
	path := writeFile(t, "risk.csv", `material,hhi,wgi_score,eu_critical_2023,substitutability,recyclability
copper,2000,0.5,true,0.8,0.4
electrical_steel,700,0.45,False,0.7,0.5
aluminum,800,0.42,FALSE,0.8,0.4
other,510,0.5,0,0.5,0.2
`)

	table, err := LoadRisk(path)
	if err != nil {
		t.Fatalf("LoadRisk: %v", err)
	}

	if diff := cmp.Diff(fallbackRisk[types.NdFeBMagnet], table.For(types.NdFeBMagnet)); diff != "" {
		t.Errorf("magnet should be the exact fallback record:\n%s", diff)
	}
	wantCopper := Indicators{HHI: 2000, WGIScore: 0.5, EUCritical: true, Substitutability: 0.8, Recyclability: 0.4}
	if diff := cmp.Diff(wantCopper, table.For(types.Copper)); diff != "" {
		t.Errorf("copper should come from the file:\n%s", diff)
	}
	if table.For(types.Other).HHI != 510 {
		t.Errorf("other HHI = %v, want 510", table.For(types.Other).HHI)
	}
	if diff := cmp.Diff([]types.Material{types.NdFeBMagnet}, table.Filled); diff != "" {
		t.Errorf("filled mismatch:\n%s", diff)
	}
}

func TestLoadEmptyFileUsesFallback(t *testing.T) {
	path := writeFile(t, "empty.csv", "# nothing here yet\n")

	prices, err := LoadPrices(path)
	if err != nil {
		t.Fatalf("LoadPrices: %v", err)
	}
	if diff := cmp.Diff(fallbackPrices, prices.Prices); diff != "" {
		t.Errorf("prices mismatch:\n%s", diff)
	}
	if len(prices.Filled) != 5 {
		t.Errorf("expected all 5 materials filled, got %v", prices.Filled)
	}
}

func TestLoadIgnoresUnknownMaterials(t *testing.T) {
	path := writeFile(t, "prices.csv", "material,price_usd_per_kg\ncobalt,33\ncopper,9\n")

	table, err := LoadPrices(path)
	if err != nil {
		t.Fatalf("LoadPrices: %v", err)
	}
	if len(table.Prices) != 5 {
		t.Errorf("table should only hold the 5 materials, got %v", table.Prices)
	}
	if table.Price(types.Copper) != 9 {
		t.Errorf("copper = %v, want 9", table.Price(types.Copper))
	}
}

func TestLoadMalformedIsFatal(t *testing.T) {
	tests := []struct {
		name string
		load func(string) error
		body string
		want string
	}{
		{
			name: "non-numeric price",
			load: func(p string) error { _, err := LoadPrices(p); return err },
			body: "material,price_usd_per_kg\ncopper,cheap\n",
			want: "price_usd_per_kg",
		},
		{
			name: "missing price column",
			load: func(p string) error { _, err := LoadPrices(p); return err },
			body: "material,cost\ncopper,9\n",
			want: "missing column",
		},
		{
			name: "bad boolean",
			load: func(p string) error { _, err := LoadRisk(p); return err },
			body: "material,hhi,wgi_score,eu_critical_2023,substitutability,recyclability\ncopper,1,0.5,maybe,0.1,0.1\n",
			want: "eu_critical_2023",
		},
		{
			name: "short row",
			load: func(p string) error { _, err := LoadRisk(p); return err },
			body: "material,hhi,wgi_score,eu_critical_2023,substitutability,recyclability\ncopper,1,0.5\n",
			want: "eu_critical_2023",
		},
		{
			name: "unterminated quote",
			load: func(p string) error { _, err := LoadPrices(p); return err },
			body: "material,price_usd_per_kg\n\"copper,9\n",
			want: "read record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.load(writeFile(t, "bad.csv", tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !apperrors.IsType(err, apperrors.TypeParsing) {
				t.Errorf("expected PARSING_ERROR, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestMalformedCellCarriesLine(t *testing.T) {
	path := writeFile(t, "prices.csv", "# header comment\nmaterial,price_usd_per_kg\ncopper,9\naluminum,n/a\n")
	_, err := LoadPrices(path)

	appErr, ok := err.(*apperrors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if appErr.Context["line"] != 4 {
		t.Errorf("line = %v, want 4", appErr.Context["line"])
	}
	if appErr.Context["path"] != path {
		t.Errorf("path = %v", appErr.Context["path"])
	}
}

func TestFallbackTablesAreCopies(t *testing.T) {
	p := FallbackPrices()
	p.Prices[types.Copper] = 0
	if FallbackPrice(types.Copper) != 9.50 {
		t.Error("mutating a fallback table leaked into the package data")
	}

	r := FallbackRisk()
	r.Indicators[types.NdFeBMagnet] = Indicators{}
	if !FallbackIndicators(types.NdFeBMagnet).EUCritical {
		t.Error("mutating a fallback risk table leaked into the package data")
	}
}
