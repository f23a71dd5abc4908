package core

// sanitize.go provides text and number sanitization for spreadsheet cell data.
//
// These functions handle the messy reality of marketplace exports:
//   - Inconsistent accents and casing in headers ("Código" vs "codigo")
//   - Non-breaking spaces and control characters pasted from other tools
//   - Literal "undefined"/"null" strings leaking from upstream systems
//   - Brazilian number formatting ("1.234,56")
//   - HTML entities embedded in product descriptions
//
// All of them are pure functions. normalizeKey and normalizeCode are
// idempotent, which matters because normalized values are compared against
// each other throughout the matcher and header resolver.

import (
	"encoding/json"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text (NFD) and removes combining marks, so that
// "Código" and "Codigo" normalize to the same key.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	// nonAlnumRun matches any run of characters outside [a-z0-9]. NormalizeKey
	// collapses such runs to a single space; NormalizeCode removes them.
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

	// entityOnly matches values that are a single encoded HTML entity and
	// nothing else (e.g. "&nbsp;", "&#160;").
	entityOnly = regexp.MustCompile(`^&[a-zA-Z#0-9]+;$`)

	// hasContentChar reports whether a value carries at least one character
	// worth keeping: ASCII alphanumerics, accented Latin letters, or an
	// opening parenthesis (brand placeholders like "(Sem marca)").
	hasContentChar = regexp.MustCompile(`[A-Za-z0-9(\x{00C0}-\x{00D6}\x{00D8}-\x{00F6}\x{00F8}-\x{00FF}]`)

	// nonNumericChar strips everything that cannot be part of a number,
	// including currency symbols and stray unit suffixes.
	nonNumericChar = regexp.MustCompile(`[^0-9.,\-]+`)
)

// NormalizeKey produces a canonical form for fuzzy header and value
// comparison: non-breaking spaces removed, diacritics stripped, lower-cased,
// runs of non-alphanumerics collapsed to a single space, trimmed.
//
// Idempotent: NormalizeKey(NormalizeKey(s)) == NormalizeKey(s).
func NormalizeKey(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	s = nonAlnumRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeCode is NormalizeKey without the space placeholder: every
// non-alphanumeric is dropped outright. Used for SKU/code equality, where
// "TN-5.AM" and "tn5am" must compare equal.
func NormalizeCode(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	return nonAlnumRun.ReplaceAllString(s, "")
}

// SafeCellText converts an arbitrary value to a display string that is safe
// to embed in XLSX markup. Control characters below 0x20 (except tab, LF and
// CR) and DEL are stripped, non-breaking spaces become regular spaces, and
// the literal sentinel words "undefined" and "null" become empty strings.
func SafeCellText(v any) string {
	if v == nil {
		return ""
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}

	s = strings.ReplaceAll(s, " ", " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0x7f {
			continue
		}
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		b.WriteRune(r)
	}
	s = strings.TrimSpace(b.String())

	if strings.EqualFold(s, "undefined") || strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// jsonString renders a non-scalar value as JSON, falling back to the empty
// string when the value cannot be marshalled.
func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// DecodeAndClean is the aggressive variant of SafeCellText used for
// descriptive fields (name, brand, category). Beyond the SafeCellText
// guarantees it decodes HTML entities, drops values that are a single
// encoded entity, drops values with no alphanumeric content, and drops the
// domain placeholder "não"/"nao", which upstream exports use as a textual
// false-flag that must become a genuinely empty cell.
func DecodeAndClean(v any) string {
	s := SafeCellText(v)
	if s == "" {
		return ""
	}
	if entityOnly.MatchString(s) {
		return ""
	}

	s = strings.TrimSpace(html.UnescapeString(s))
	if s == "" {
		return ""
	}
	if !hasContentChar.MatchString(s) {
		return ""
	}
	if strings.EqualFold(s, "undefined") || strings.EqualFold(s, "null") {
		return ""
	}
	if strings.EqualFold(s, "não") || strings.EqualFold(s, "nao") {
		return ""
	}
	return s
}

// SafeNumber parses a value into a float64, handling Brazilian formatting:
// "1.234,56" reads as 1234.56 and "4,50" as 4.5. Currency symbols, unit
// suffixes and whitespace are stripped before parsing. The boolean result is
// false for empty, unparseable, or non-finite input; a NaN or Inf never
// escapes this function.
func SafeNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}

	s := strings.TrimSpace(SafeCellText(v))
	if s == "" {
		return 0, false
	}
	s = nonNumericChar.ReplaceAllString(s, "")

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		// Brazilian convention: "." is the thousands separator, "," decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// finite rejects NaN and Inf values.
func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SafeCellValue is the final gate before any cell write. Finite numbers pass
// through unchanged, non-finite numbers become the empty string, composite
// values are JSON-stringified and sanitized, and everything else goes through
// SafeCellText. The returned value is always either a string or a finite
// number.
func SafeCellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if f, ok := finite(t); ok {
			return f
		}
		return ""
	case float32:
		if f, ok := finite(float64(t)); ok {
			return f
		}
		return ""
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		return SafeCellText(t)
	case bool:
		return SafeCellText(t)
	default:
		return SafeCellText(jsonString(t))
	}
}
