package reference

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadDocumentSkipsCommentsAndBlankLines(t *testing.T) {
	in := `# comment before the header
material, price_usd_per_kg ,world_bank_indicator

# comment between rows
copper,9.5,PCOPP
other,5.0,
`
	doc, err := ReadDocument(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}

	if diff := cmp.Diff([]string{"material", "price_usd_per_kg", "world_bank_indicator"}, doc.Header); diff != "" {
		t.Errorf("header mismatch:\n%s", diff)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(doc.Records))
	}
	if doc.Cell(0, doc.Column("world_bank_indicator")) != "PCOPP" {
		t.Errorf("indicator = %q", doc.Cell(0, 2))
	}
	if doc.Line(1) != 6 {
		t.Errorf("Line(1) = %d, want 6", doc.Line(1))
	}
}

func TestReadDocumentEmpty(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if !doc.Empty() {
		t.Error("expected empty document")
	}
}

func TestDocumentColumnHelpers(t *testing.T) {
	doc := &Document{
		Header:  []string{"material", "price_usd_per_kg"},
		Records: [][]string{{"copper", "9.5"}, {"other"}},
	}

	if doc.Column("PRICE_USD_PER_KG") != 1 {
		t.Error("Column should be case-insensitive")
	}
	if doc.Column("year") != -1 {
		t.Error("missing column should return -1")
	}

	year := doc.EnsureColumn("year")
	if year != 2 || doc.EnsureColumn("year") != 2 {
		t.Errorf("EnsureColumn = %d, want 2 (and stable)", year)
	}

	doc.SetCell(1, year, "2026")
	if doc.Cell(1, year) != "2026" || doc.Cell(1, 1) != "" {
		t.Errorf("short record not padded correctly: %v", doc.Records[1])
	}
	if doc.Cell(9, 0) != "" || doc.Cell(0, -1) != "" {
		t.Error("out-of-range cells should read as empty")
	}
}

func TestDocumentWritePadsRecords(t *testing.T) {
	doc := &Document{
		Header:  []string{"material", "price_usd_per_kg", "year"},
		Records: [][]string{{"copper", "9.5", "2026"}, {"other", "5"}},
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "material,price_usd_per_kg,year\ncopper,9.5,2026\nother,5,\n"
	if buf.String() != want {
		t.Errorf("Write =\n%s\nwant\n%s", buf.String(), want)
	}
}
