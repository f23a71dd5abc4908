package core

// match.go resolves a linkage record to its catalog record.
//
// The exports share no reliable key, so resolution is a priority cascade of
// increasingly fuzzy rules: identity, then SKU/code, then name substring.
// First structural match wins; ties resolve to the first catalog occurrence.
// This trades precision for recall deliberately: an unmatched record only
// degrades one output row, while a strict matcher would drop valid data.

import "strings"

// LinkageQuery carries the linkage-side values the cascade matches against.
type LinkageQuery struct {
	ID            string
	ReferenceCode string
	DisplayName   string
}

// matchRule is one tier of the cascade: a pure predicate evaluated per
// catalog record.
type matchRule func(rec Record, q LinkageQuery) bool

// matchCascade is evaluated in order with early exit. Order matters: the
// identity tier is exact, the code tier tolerates formatting differences,
// and the name tier is a last-resort substring match.
var matchCascade = []matchRule{
	matchByIdentity,
	matchByCode,
	matchByName,
}

// ResolveCatalogRecord finds the catalog record for a linkage query, or nil
// when no tier matches.
func ResolveCatalogRecord(catalog []Record, q LinkageQuery) *Record {
	for _, rule := range matchCascade {
		for i := range catalog {
			if rule(catalog[i], q) {
				return &catalog[i]
			}
		}
	}
	return nil
}

// matchByIdentity compares the linkage id against the catalog id field under
// its known aliases, as trimmed strings.
func matchByIdentity(rec Record, q LinkageQuery) bool {
	id := strings.TrimSpace(q.ID)
	if id == "" {
		return false
	}
	return strings.TrimSpace(PickField(rec, catalogIDAliases)) == id
}

// matchByCode compares normalized SKU codes: equal, equal after stripping
// leading zeros, or a substring of each other in either direction.
func matchByCode(rec Record, q LinkageQuery) bool {
	want := NormalizeCode(q.ReferenceCode)
	have := NormalizeCode(PickField(rec, catalogCodeAliases))
	if want == "" || have == "" {
		return false
	}
	if have == want {
		return true
	}
	if strings.TrimLeft(have, "0") == strings.TrimLeft(want, "0") {
		return true
	}
	return strings.Contains(have, want) || strings.Contains(want, have)
}

// matchByName checks whether the catalog name contains the linkage display
// name after normalization.
func matchByName(rec Record, q LinkageQuery) bool {
	want := NormalizeKey(q.DisplayName)
	have := NormalizeKey(PickField(rec, catalogNameAliases))
	if want == "" || have == "" {
		return false
	}
	return strings.Contains(have, want)
}

// categorySeparator is the hierarchy separator token used by the catalog
// export; it renders as a breadcrumb in the output.
const (
	categorySeparator  = ">>"
	categoryBreadcrumb = " > "
)

// ResolveCategoryColumnIndex locates the catalog's category column in a
// header row: exact normalized "categoria" first, then a header containing
// both "categoria" and "produto", then any header containing "categoria".
// Returns -1 when none qualifies.
func ResolveCategoryColumnIndex(headers []string) int {
	normed := make([]string, len(headers))
	for i, h := range headers {
		normed[i] = NormalizeKey(h)
	}

	for i, n := range normed {
		if n == "categoria" {
			return i
		}
	}
	for i, n := range normed {
		if strings.Contains(n, "categoria") && strings.Contains(n, "produto") {
			return i
		}
	}
	for i, n := range normed {
		if strings.Contains(n, "categoria") {
			return i
		}
	}
	return -1
}

// CategoryFromCatalogRecord reads the category by position from the raw
// column array rather than the header-keyed map, because the export's header
// text for this column is unreliable while its position is stable. The
// hierarchy separator token becomes a visual breadcrumb.
func CategoryFromCatalogRecord(rec Record, categoryCol int) string {
	if categoryCol < 0 {
		return ""
	}
	raw := DecodeAndClean(rec.At(categoryCol))
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, categorySeparator) {
		return raw
	}

	parts := strings.Split(raw, categorySeparator)
	cleaned := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, categoryBreadcrumb)
}
