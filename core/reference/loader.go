package reference

import (
	"embed"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"

	"go.uber.org/zap"

	"motor-supplychain/core/types"
	apperrors "motor-supplychain/internal/errors"
	"motor-supplychain/internal/logging"
)

//go:embed data/*.csv
var builtinFS embed.FS

const (
	// BuiltinPrices is the packaged price table
	BuiltinPrices = "data/material_prices.csv"

	// BuiltinRisk is the packaged risk indicator table
	BuiltinRisk = "data/supply_risk_indicators.csv"
)

// Price table columns
const (
	ColMaterial  = "material"
	ColPrice     = "price_usd_per_kg"
	ColIndicator = "world_bank_indicator"
	ColYear      = "year"
)

// Risk table columns
const (
	ColHHI              = "hhi"
	ColWGI              = "wgi_score"
	ColEUCritical       = "eu_critical_2023"
	ColSubstitutability = "substitutability"
	ColRecyclability    = "recyclability"
)

// Builtin opens a packaged table for reading
func Builtin(name string) (fs.File, error) {
	return builtinFS.Open(name)
}

// LoadPrices returns the price table at path, or the packaged one when
// path is empty. A missing file yields the fallback table with a warning.
func LoadPrices(path string) (*PriceTable, error) {
	doc, src, err := openDocument(path, BuiltinPrices, "prices")
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return FallbackPrices(), nil
	}

	table := newPriceTable(src)
	if !doc.Empty() {
		cols, err := requireColumns(doc, src, ColMaterial, ColPrice)
		if err != nil {
			return nil, err
		}
		indicatorCol := doc.Column(ColIndicator)

		for row := range doc.Records {
			m, ok := rowMaterial(doc, row, cols[0], src)
			if !ok {
				continue
			}
			price, err := parseFloat(doc, row, cols[1], src)
			if err != nil {
				return nil, err
			}
			table.Prices[m] = price
			if ind := doc.Cell(row, indicatorCol); ind != "" {
				table.Indicator[m] = ind
			} else {
				delete(table.Indicator, m)
			}
		}
	}

	for _, m := range types.Materials() {
		if _, ok := table.Prices[m]; !ok {
			table.Prices[m] = fallbackPrices[m]
			table.Filled = append(table.Filled, m)
		}
	}
	logFilled("prices", src, table.Filled)
	return table, nil
}

// LoadRisk returns the risk table at path, or the packaged one when path
// is empty. A missing file yields the fallback table with a warning.
func LoadRisk(path string) (*RiskTable, error) {
	doc, src, err := openDocument(path, BuiltinRisk, "risk")
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return FallbackRisk(), nil
	}

	table := newRiskTable(src)
	if !doc.Empty() {
		cols, err := requireColumns(doc, src,
			ColMaterial, ColHHI, ColWGI, ColEUCritical, ColSubstitutability, ColRecyclability)
		if err != nil {
			return nil, err
		}

		for row := range doc.Records {
			m, ok := rowMaterial(doc, row, cols[0], src)
			if !ok {
				continue
			}
			var ind Indicators
			if ind.HHI, err = parseFloat(doc, row, cols[1], src); err != nil {
				return nil, err
			}
			if ind.WGIScore, err = parseFloat(doc, row, cols[2], src); err != nil {
				return nil, err
			}
			if ind.EUCritical, err = parseBool(doc, row, cols[3], src); err != nil {
				return nil, err
			}
			if ind.Substitutability, err = parseFloat(doc, row, cols[4], src); err != nil {
				return nil, err
			}
			if ind.Recyclability, err = parseFloat(doc, row, cols[5], src); err != nil {
				return nil, err
			}
			table.Indicators[m] = ind
		}
	}

	for _, m := range types.Materials() {
		if _, ok := table.Indicators[m]; !ok {
			table.Indicators[m] = fallbackRisk[m]
			table.Filled = append(table.Filled, m)
		}
	}
	logFilled("risk", src, table.Filled)
	return table, nil
}

// openDocument resolves path (or the builtin table) and parses it.
// A nil document with a nil error means the file does not exist.
func openDocument(path, builtin, table string) (*Document, Source, error) {
	var (
		r   io.ReadCloser
		src Source
		err error
	)
	if path == "" {
		src = Source{Kind: SourceBuiltin, Path: builtin}
		r, err = builtinFS.Open(builtin)
	} else {
		src = Source{Kind: SourceFile, Path: path}
		r, err = os.Open(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("reference table not found, using built-in fallback values",
				zap.String("table", table),
				zap.String("path", src.Path),
			)
			return nil, src, nil
		}
		return nil, src, apperrors.Wrapf(apperrors.TypeParsing, err, "open %s table", table).
			WithContext("path", src.Path)
	}
	defer r.Close()

	doc, err := ReadDocument(r)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			appErr.WithContext("path", src.Path)
		}
		return nil, src, err
	}
	logging.Debug("reference table read",
		zap.String("table", table),
		zap.Stringer("source", src),
		zap.Int("rows", len(doc.Records)),
	)
	return doc, src, nil
}

func requireColumns(doc *Document, src Source, names ...string) ([]int, error) {
	cols := make([]int, len(names))
	for i, name := range names {
		cols[i] = doc.Column(name)
		if cols[i] < 0 {
			return nil, apperrors.Newf(apperrors.TypeParsing, "missing column %q", name).
				WithContext("path", src.Path)
		}
	}
	return cols, nil
}

func rowMaterial(doc *Document, row, col int, src Source) (types.Material, bool) {
	key := doc.Cell(row, col)
	m, ok := types.ParseMaterial(key)
	if !ok {
		logging.Debug("ignoring row for unknown material",
			zap.String("material", key),
			zap.String("path", src.Path),
			zap.Int("line", doc.Line(row)),
		)
	}
	return m, ok
}

func parseFloat(doc *Document, row, col int, src Source) (float64, error) {
	raw := doc.Cell(row, col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, cellError(doc, row, col, src, err)
	}
	return v, nil
}

func parseBool(doc *Document, row, col int, src Source) (bool, error) {
	raw := doc.Cell(row, col)
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, cellError(doc, row, col, src, err)
	}
	return v, nil
}

func cellError(doc *Document, row, col int, src Source, cause error) error {
	return apperrors.Wrapf(apperrors.TypeParsing, cause, "invalid %s value", doc.Header[col]).
		WithContext("path", src.Path).
		WithContext("line", doc.Line(row))
}

func logFilled(table string, src Source, filled []types.Material) {
	if len(filled) == 0 {
		return
	}
	names := make([]string, len(filled))
	for i, m := range filled {
		names[i] = m.String()
	}
	logging.Warn("reference table incomplete, filled from built-in fallback values",
		zap.String("table", table),
		zap.Stringer("source", src),
		zap.Strings("materials", names),
	)
}
