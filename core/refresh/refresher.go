package refresh

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"motor-supplychain/core/reference"
	apperrors "motor-supplychain/internal/errors"
	"motor-supplychain/internal/logging"
)

// Outcome is what happened to one price row
type Outcome int

const (
	OutcomeUpdated Outcome = iota // new price written
	OutcomeSkipped                // no indicator declared
	OutcomeFailed                 // fetch failed or returned no data, price kept
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Update is the refresh outcome of one price row
type Update struct {
	Material  string  `json:"material"`
	Indicator string  `json:"indicator,omitempty"`
	Previous  float64 `json:"previous"`
	Price     float64 `json:"price"`
	Outcome   Outcome `json:"outcome"`
	Error     string  `json:"error,omitempty"`
}

// Result summarises a refresh run
type Result struct {
	Path    string   `json:"path"`
	Source  string   `json:"source"`
	Year    int      `json:"year"`
	Updates []Update `json:"updates"`
}

// Count returns how many rows ended with the given outcome
func (r *Result) Count(o Outcome) int {
	n := 0
	for _, u := range r.Updates {
		if u.Outcome == o {
			n++
		}
	}
	return n
}

// Refresher rewrites a price table with fresh commodity prices
type Refresher struct {
	source  Source
	metrics *Metrics
	now     func() time.Time
}

// Option configures a Refresher
type Option func(*Refresher)

// WithMetrics records outcomes on m
func WithMetrics(m *Metrics) Option {
	return func(r *Refresher) { r.metrics = m }
}

// WithClock overrides the clock used for the year column
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// NewRefresher creates a refresher; source may be nil, in which case Run
// reports the missing capability.
func NewRefresher(source Source, opts ...Option) *Refresher {
	r := &Refresher{source: source, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run refreshes the price table at path in place. Rows with an indicator
// get the mean of the recent values converted from USD/t to USD/kg; rows
// without one, or whose fetch fails, keep their price. Every row's year is
// set to the current year. Per-row failures are reported in the result;
// only an unusable file or a missing source is an error.
func (r *Refresher) Run(ctx context.Context, path string) (*Result, error) {
	if r.source == nil {
		return nil, apperrors.NotSupported("price refresh").
			WithContext("hint", `no commodity price source configured; set "refresh.source" to "worldbank" in the configuration file`)
	}
	if path == "" {
		return nil, apperrors.Input("price refresh needs a writable prices CSV path; export the built-in table first")
	}

	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if doc.Empty() {
		return nil, apperrors.Newf(apperrors.TypeParsing, "price table %s has no header", path)
	}
	materialCol := doc.Column(reference.ColMaterial)
	priceCol := doc.Column(reference.ColPrice)
	if materialCol < 0 || priceCol < 0 {
		return nil, apperrors.Newf(apperrors.TypeParsing, "price table %s needs %q and %q columns",
			path, reference.ColMaterial, reference.ColPrice)
	}
	indicatorCol := doc.Column(reference.ColIndicator)
	yearCol := doc.EnsureColumn(reference.ColYear)

	year := r.now().Year()
	result := &Result{Path: path, Source: r.source.Name(), Year: year}

	for row := range doc.Records {
		raw := doc.Cell(row, priceCol)
		previous, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.TypeParsing, err, "invalid %s value", reference.ColPrice).
				WithContext("path", path).
				WithContext("line", doc.Line(row))
		}

		u := Update{
			Material:  doc.Cell(row, materialCol),
			Indicator: doc.Cell(row, indicatorCol),
			Previous:  previous,
			Price:     previous,
			Outcome:   OutcomeSkipped,
		}
		if u.Indicator != "" {
			if price, ok := r.fetchPrice(ctx, &u); ok {
				u.Price = price.InexactFloat64()
				u.Outcome = OutcomeUpdated
				doc.SetCell(row, priceCol, price.String())
			} else {
				u.Outcome = OutcomeFailed
			}
		}
		doc.SetCell(row, yearCol, strconv.Itoa(year))

		r.metrics.observe(u)
		result.Updates = append(result.Updates, u)
	}

	if err := writeDocument(path, doc); err != nil {
		return nil, err
	}
	logging.Info("prices saved", zap.String("path", path), zap.Int("year", year))
	return result, nil
}

// fetchPrice returns the mean of the indicator values in USD/kg, rounded
// to 4 decimals. Failures are logged on u and reported as !ok.
func (r *Refresher) fetchPrice(ctx context.Context, u *Update) (decimal.Decimal, bool) {
	values, err := r.source.Fetch(ctx, u.Indicator)
	if err != nil {
		u.Error = err.Error()
		logging.Warn("could not fetch price",
			zap.String("material", u.Material),
			zap.String("indicator", u.Indicator),
			zap.Error(err),
		)
		return decimal.Zero, false
	}
	if len(values) == 0 {
		u.Error = "no data returned"
		logging.Warn("no data returned",
			zap.String("material", u.Material),
			zap.String("indicator", u.Indicator),
		)
		return decimal.Zero, false
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	perTon := sum.Div(decimal.NewFromInt(int64(len(values))))
	price := perTon.Div(decimal.NewFromInt(1000)).Round(4)

	logging.Info("price updated",
		zap.String("material", u.Material),
		zap.String("previous", decimal.NewFromFloat(u.Previous).StringFixed(4)),
		zap.String("price", price.StringFixed(4)),
		zap.String("unit", "USD/kg"),
	)
	return price, true
}

func readDocument(path string) (*reference.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("price table", path)
		}
		return nil, apperrors.Wrapf(apperrors.TypeParsing, err, "open price table %s", path)
	}
	defer f.Close()
	return reference.ReadDocument(f)
}

// writeDocument replaces path via a temp file in the same directory
func writeDocument(path string, doc *reference.Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".prices-*.csv")
	if err != nil {
		return apperrors.Internal("create temp price table", err)
	}
	defer os.Remove(tmp.Name())

	if err := doc.Write(tmp); err != nil {
		tmp.Close()
		return apperrors.Internal("write price table", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Internal("close price table", err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.Internal("replace price table", err)
	}
	return nil
}
