package reference

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	apperrors "motor-supplychain/internal/errors"
)

// Document is a reference CSV held in memory: one header row followed by
// data records. Comment lines ('#') and blank lines are dropped on read.
type Document struct {
	Header  []string
	Records [][]string

	// Lines holds the source line of each record, for error context
	Lines []int
}

// ReadDocument parses a reference CSV. A stream with no header yields an
// empty document and no error.
func ReadDocument(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	doc := &Document{}
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return doc, nil
	}
	if err != nil {
		return nil, apperrors.Parsing("read header", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	doc.Header = header

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Parsing("read record", err)
		}
		line, _ := cr.FieldPos(0)
		doc.Records = append(doc.Records, rec)
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}

// Empty reports whether the document has no header
func (d *Document) Empty() bool {
	return len(d.Header) == 0
}

// Column returns the index of a header column, or -1
func (d *Document) Column(name string) int {
	for i, h := range d.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// EnsureColumn returns the index of a column, appending it when missing
func (d *Document) EnsureColumn(name string) int {
	if i := d.Column(name); i >= 0 {
		return i
	}
	d.Header = append(d.Header, name)
	return len(d.Header) - 1
}

// Cell returns a trimmed cell value; out-of-range cells read as ""
func (d *Document) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(d.Records) || col >= len(d.Records[row]) {
		return ""
	}
	return strings.TrimSpace(d.Records[row][col])
}

// SetCell writes a cell, padding short records
func (d *Document) SetCell(row, col int, value string) {
	rec := d.Records[row]
	for len(rec) <= col {
		rec = append(rec, "")
	}
	rec[col] = value
	d.Records[row] = rec
}

// Line returns the source line of a record, or 0 when unknown
func (d *Document) Line(row int) int {
	if row < 0 || row >= len(d.Lines) {
		return 0
	}
	return d.Lines[row]
}

// Write serialises the document as plain CSV (comments are not kept)
func (d *Document) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Header); err != nil {
		return err
	}
	for _, rec := range d.Records {
		padded := rec
		for len(padded) < len(d.Header) {
			padded = append(padded, "")
		}
		if err := cw.Write(padded); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
