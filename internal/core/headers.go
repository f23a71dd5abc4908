package core

// headers.go resolves the output template's loosely-named header row into
// logical column positions, and provides the fuzzy field lookup used against
// the delimited exports.
//
// The template reserves row 1 for a decorative grouping band; the
// authoritative field headers live at a fixed, configurable row below it.
// Header text varies between template revisions (accents, abbreviations,
// stray whitespace), so all comparisons go through NormalizeKey.

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// HeaderEntry is one populated cell of the template header row.
type HeaderEntry struct {
	Col     int // 1-based spreadsheet column
	Key     string
	NormKey string
}

// HeaderMap is the ordered list of header entries, preserving template
// column order. Built once per run, read-only afterward.
type HeaderMap []HeaderEntry

// BuildHeaderMap reads the header row of a sheet and extracts an entry for
// every populated cell. excelize flattens rich/segmented text into the plain
// cell value, so both representations are covered by GetRows. Cells that
// sanitize to empty are skipped.
func BuildHeaderMap(f *excelize.File, sheet string, headerRow int) (HeaderMap, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if headerRow < 1 || headerRow > len(rows) {
		return nil, &MissingTemplateColumnError{Column: "header row"}
	}

	var hm HeaderMap
	for i, cell := range rows[headerRow-1] {
		key := SafeCellText(cell)
		if key == "" {
			continue
		}
		hm = append(hm, HeaderEntry{
			Col:     i + 1,
			Key:     key,
			NormKey: NormalizeKey(key),
		})
	}
	return hm, nil
}

// FindColumn returns the 1-based column for a header name using normalized
// exact matching only. The boolean result is false when no entry matches.
func (hm HeaderMap) FindColumn(name string) (int, bool) {
	want := NormalizeKey(name)
	for _, e := range hm {
		if e.NormKey == want {
			return e.Col, true
		}
	}
	return 0, false
}

// PickField looks up a record field by a list of candidate names with a
// three-tier fallback:
//
//  1. exact normalized key match,
//  2. first candidate whose normalized form is a substring of, or contains,
//     a field's normalized key,
//  3. when a candidate mentions "categoria", the first field whose
//     normalized key contains that fragment.
//
// A strict match would silently drop valid data because field names vary by
// export. Returns "" when nothing matches.
func PickField(rec Record, candidates []string) string {
	type normHeader struct {
		key  string
		norm string
	}
	normed := make([]normHeader, 0, len(rec.Headers))
	for _, h := range rec.Headers {
		if h == "" {
			continue
		}
		normed = append(normed, normHeader{key: h, norm: NormalizeKey(h)})
	}

	// Tier 1: exact normalized match.
	for _, cand := range candidates {
		want := NormalizeKey(cand)
		if want == "" {
			continue
		}
		for _, h := range normed {
			if h.norm == want {
				return rec.Fields[h.key]
			}
		}
	}

	// Tier 2: substring match in either direction.
	for _, cand := range candidates {
		want := NormalizeKey(cand)
		if want == "" {
			continue
		}
		for _, h := range normed {
			if h.norm == "" {
				continue
			}
			if strings.Contains(h.norm, want) || strings.Contains(want, h.norm) {
				return rec.Fields[h.key]
			}
		}
	}

	// Tier 3: category fields get one extra chance, because the catalog
	// export renames its category column between revisions.
	for _, cand := range candidates {
		if !strings.Contains(NormalizeKey(cand), "categoria") {
			continue
		}
		for _, h := range normed {
			if strings.Contains(h.norm, "categoria") {
				return rec.Fields[h.key]
			}
		}
	}

	return ""
}
