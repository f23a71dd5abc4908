package core

// ingest.go parses the delimited marketplace exports into row records.
//
// The exports are semicolon-separated text produced by at least three
// different upstream tools, so the parser is deliberately tolerant: quoted
// fields may contain the delimiter or embedded newlines, rows may be shorter
// or longer than the header, and a UTF-8 byte-order mark may or may not be
// present. Structure problems that make the file unusable (no header, no
// data) are the only hard failures.

import (
	"bytes"
	"encoding/csv"
	"strings"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Record is one parsed row in its dual representation: header-keyed fields
// for name-based access and the raw column slice for positional access.
// Positional access matters because the category column of the catalog
// export is positionally stable while its header text is not.
//
// Headers is shared across all records of a table and must not be mutated.
type Record struct {
	Headers []string
	Fields  map[string]string
	Raw     []string
}

// Field returns the value for an exact header name, or "" when absent.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// At returns the raw column value at a zero-based position, or "" when the
// row has no such column.
func (r Record) At(pos int) string {
	if pos < 0 || pos >= len(r.Raw) {
		return ""
	}
	return r.Raw[pos]
}

// Table is a fully parsed delimited file.
type Table struct {
	Headers []string
	Rows    []Record
}

// ParseTable parses delimited text into a Table. The first non-empty row is
// the header; every following non-empty row becomes a Record. Rows shorter
// than the header are right-padded with empty strings; longer rows keep
// their extra columns in Raw but the extras get no field name.
//
// Returns a MalformedInputError when the input has fewer than two non-empty
// rows or cannot be tokenized at all.
func ParseTable(name string, data []byte, delimiter rune) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, &MalformedInputError{Input: name, Reason: err.Error()}
	}

	var lines [][]string
	for _, row := range raw {
		if isBlankRow(row) {
			continue
		}
		lines = append(lines, row)
	}
	if len(lines) < 2 {
		return nil, &MalformedInputError{Input: name, Reason: "needs a header row and at least one data row"}
	}

	headers := make([]string, len(lines[0]))
	for i, h := range lines[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for _, row := range lines[1:] {
		table.Rows = append(table.Rows, newRecord(headers, row))
	}
	return table, nil
}

// newRecord builds the dual keyed/positional representation for one row.
func newRecord(headers []string, row []string) Record {
	rec := Record{
		Headers: headers,
		Fields:  make(map[string]string, len(headers)),
		Raw:     row,
	}
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(row) {
			rec.Fields[h] = row[i]
		} else {
			rec.Fields[h] = ""
		}
	}
	if len(row) < len(headers) {
		padded := make([]string, len(headers))
		copy(padded, row)
		rec.Raw = padded
	}
	return rec
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
