package core

// reference.go parses the composite reference string embedded in the linkage
// export's SKU field.
//
// The field carries a mini-grammar describing a bill-of-materials breakdown:
//
//	reference := prefix? item ("/" item)*
//	prefix    := ("PAI" | "VAR") ws* "-" ws*
//	item      := segment ("-" segment)*
//
// "12-34493/6-95482" means 12 units of code 34493 plus 6 units of code
// 95482. A numeric segment before the last one is only treated as a
// multiplier when it is 2 or more; a lone "1-" is far more often part of the
// code itself than a quantity, so it is not a grammar match.

import (
	"regexp"
	"strconv"
	"strings"
)

// ReferenceToken is one code/quantity pair from a parsed reference.
type ReferenceToken struct {
	Code     string
	Quantity int
}

var allDigits = regexp.MustCompile(`^\d+$`)

// ParseReference decomposes a reference string into tokens. Per-item
// fallback is total: anything that does not match the grammar becomes a
// single token with the whole item as code and quantity 1. Callers cap the
// result at the template's composition-slot count.
func ParseReference(raw string) []ReferenceToken {
	s := strings.TrimSpace(SafeCellText(raw))
	s = groupPrefix.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}

	var tokens []ReferenceToken
	for _, item := range strings.Split(s, "/") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		tokens = append(tokens, parseItem(item))
	}
	return tokens
}

// parseItem extracts the quantity/code pair from one item.
func parseItem(item string) ReferenceToken {
	var segments []string
	for _, seg := range strings.Split(item, "-") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	if len(segments) >= 2 {
		for _, seg := range segments[:len(segments)-1] {
			if !allDigits.MatchString(seg) {
				continue
			}
			qty, err := strconv.Atoi(seg)
			if err == nil && qty >= 2 {
				return ReferenceToken{Code: segments[len(segments)-1], Quantity: qty}
			}
			break
		}
	}

	return ReferenceToken{Code: item, Quantity: 1}
}
