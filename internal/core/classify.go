package core

// classify.go determines the hierarchy role of a store listing.
//
// The marketplace encodes hierarchy in free text: a "PAI -" prefix marks the
// parent of a listing group and "VAR -" marks one of its variants. Listings
// without either marker are simple (no variants). Variants inherit their
// parent's store id through the ParentIndex built here.

import (
	"regexp"
	"strings"
)

// ListingRole is the hierarchy role of a listing.
type ListingRole int

const (
	RoleSimple ListingRole = iota
	RoleParent
	RoleVariant
)

func (r ListingRole) String() string {
	switch r {
	case RoleParent:
		return "parent"
	case RoleVariant:
		return "variant"
	default:
		return "simple"
	}
}

const (
	parentMarker  = "PAI -"
	variantMarker = "VAR -"
)

// groupPrefix strips a leading parent/variant marker with its surrounding
// whitespace, leaving the shared group name.
var groupPrefix = regexp.MustCompile(`(?i)^\s*(PAI|VAR)\s*-\s*`)

// ClassifyText checks a single text for a hierarchy marker anywhere in it,
// case-insensitively.
func ClassifyText(text string) ListingRole {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, parentMarker):
		return RoleParent
	case strings.Contains(upper, variantMarker):
		return RoleVariant
	default:
		return RoleSimple
	}
}

// ClassifyListing classifies by the display name, falling back to the
// reference code when the name carries no marker. Some exports keep the
// marker only on the SKU side.
func ClassifyListing(name, referenceCode string) ListingRole {
	if role := ClassifyText(name); role != RoleSimple {
		return role
	}
	return ClassifyText(referenceCode)
}

// BaseGroupName strips a leading "PAI -" or "VAR -" prefix, producing the
// group key shared by a parent and its variants.
func BaseGroupName(name string) string {
	return strings.TrimSpace(groupPrefix.ReplaceAllString(name, ""))
}

// ParentIndex maps a normalized group name to the parent's store-listing id.
// Write-once during its build pass, read-only after.
type ParentIndex map[string]string

// BuildParentIndex makes a single pass over the linkage records and indexes
// every parent's store id by its normalized group name. The first parent
// seen for a group wins.
func BuildParentIndex(records []LinkageRecord) ParentIndex {
	idx := make(ParentIndex)
	for _, rec := range records {
		if ClassifyListing(rec.Name, rec.ReferenceCode) != RoleParent {
			continue
		}
		key := NormalizeKey(BaseGroupName(rec.Name))
		if key == "" {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = rec.StoreID
		}
	}
	return idx
}

// ParentStoreID looks up the parent store id for a listing's own group name.
func (idx ParentIndex) ParentStoreID(name string) (string, bool) {
	id, ok := idx[NormalizeKey(BaseGroupName(name))]
	return id, ok
}
