package core

// assemble.go computes one output row per linkage record.
//
// The assembler pulls together the matcher, classifier and reference parser
// outputs, applies the store-specific hierarchy rule, and produces a value
// map keyed by the template's canonical field names. Unmatched records,
// empty categories and unparseable references degrade to empty fields; the
// run never aborts on a single bad record.

import (
	"fmt"
	"strings"
)

// MaxCompositionSlots is the number of fixed code/quantity column pairs in
// the template. Extra reference tokens are dropped, not an error.
const MaxCompositionSlots = 10

// SentinelNull is written to the hierarchy id columns for stores outside the
// primary-store rule, and to the store-code flag when no store id exists.
const SentinelNull = "NULL"

// Canonical output field names. The writer matches them against the template
// header map by exact name first, normalized name second.
const (
	FieldVariantID = "ID VAR"
	FieldParentID  = "ID PAI"
	FieldStoreCode = "Tipo"
	FieldProductID = "ID Produto"
	FieldReference = "Referência"
	FieldName      = "Nome"
	FieldBrand     = "Marca"
	FieldCategory  = "Categoria"
	FieldWeight    = "Peso"
	FieldWidth     = "Largura"
	FieldHeight    = "Altura"
	FieldLength    = "Comprimento"
)

// StoreRule selects the store-specific branch of the hierarchy id columns.
type StoreRule int

const (
	// DefaultSentinelRule writes the NULL sentinel to both hierarchy id
	// columns; the downstream store ignores them.
	DefaultSentinelRule StoreRule = iota

	// PrimaryStoreRule writes the computed listing and parent ids. Only the
	// hierarchy marketplace consumes these columns.
	PrimaryStoreRule
)

// ResolveStoreRule maps a free-text store context onto a rule.
func ResolveStoreRule(storeContext string) StoreRule {
	if strings.Contains(NormalizeKey(storeContext), "madeira") {
		return PrimaryStoreRule
	}
	return DefaultSentinelRule
}

// LinkageRecord is one row of the listing-linkage export with its logical
// fields extracted.
type LinkageRecord struct {
	Record

	ProductID     string
	StoreID       string
	Name          string
	ReferenceCode string
}

// NewLinkageRecord extracts the logical linkage fields from a parsed row.
func NewLinkageRecord(rec Record) LinkageRecord {
	return LinkageRecord{
		Record:        rec,
		ProductID:     strings.TrimSpace(PickField(rec, linkageProductIDAliases)),
		StoreID:       strings.TrimSpace(PickField(rec, linkageStoreIDAliases)),
		Name:          SafeCellText(PickField(rec, linkageNameAliases)),
		ReferenceCode: SafeCellText(PickField(rec, linkageRefAliases)),
	}
}

// OutputRow is the assembled record for one template row.
type OutputRow struct {
	// Values maps canonical field names to cell values.
	Values map[string]any

	// VariantID and ParentID feed the force-written hierarchy id columns.
	VariantID string
	ParentID  string

	// Category feeds the force-written category column.
	Category string

	// Matched reports whether a catalog record was resolved.
	Matched bool
}

// Assembler computes output rows against shared, read-only run structures.
type Assembler struct {
	Catalog     []Record
	CategoryCol int // zero-based position in the catalog raw columns, -1 if unresolved
	Parents     ParentIndex
	Rule        StoreRule
}

// Assemble computes the output row for one linkage record.
func (a *Assembler) Assemble(link LinkageRecord) OutputRow {
	query := LinkageQuery{
		ID:            link.ProductID,
		ReferenceCode: link.ReferenceCode,
		DisplayName:   BaseGroupName(link.Name),
	}
	cat := ResolveCatalogRecord(a.Catalog, query)

	category := ""
	if cat != nil {
		category = CategoryFromCatalogRecord(*cat, a.CategoryCol)
	}

	role := ClassifyListing(link.Name, link.ReferenceCode)

	// A variant inherits its parent's store id when the group has one;
	// everything else keeps its own.
	storeID := link.StoreID
	if role == RoleVariant {
		if parentID, ok := a.Parents.ParentStoreID(link.Name); ok && parentID != "" {
			storeID = parentID
		}
	}

	row := OutputRow{
		Values:    make(map[string]any, 16+2*MaxCompositionSlots),
		VariantID: link.StoreID,
		ParentID:  storeID,
		Category:  category,
		Matched:   cat != nil,
	}

	name := DecodeAndClean(link.Name)
	brand := ""
	if cat != nil {
		if name == "" {
			name = DecodeAndClean(PickField(*cat, catalogNameAliases))
		}
		brand = DecodeAndClean(PickField(*cat, catalogBrandAliases))
	}

	row.Values[FieldProductID] = link.ProductID
	row.Values[FieldReference] = link.ReferenceCode
	row.Values[FieldName] = name
	row.Values[FieldBrand] = brand
	row.Values[FieldCategory] = category
	row.Values[FieldStoreCode] = storeCodeFlag(storeID)

	a.applyHierarchyRule(&row)
	a.applyDimensions(&row, cat)
	applyCompositionSlots(&row, link.ReferenceCode)

	return row
}

// applyHierarchyRule resolves the store-specific hierarchy id branch. Stores
// outside the primary rule receive the sentinel in both columns.
func (a *Assembler) applyHierarchyRule(row *OutputRow) {
	if a.Rule != PrimaryStoreRule {
		row.VariantID = SentinelNull
		row.ParentID = SentinelNull
	}
	row.Values[FieldVariantID] = row.VariantID
	row.Values[FieldParentID] = row.ParentID
}

// applyDimensions parses the four dimensional numerics through SafeNumber
// against the per-store alias lists. Unparseable values stay blank.
func (a *Assembler) applyDimensions(row *OutputRow, cat *Record) {
	dims := []struct {
		field   string
		aliases []string
	}{
		{FieldWeight, weightAliases},
		{FieldWidth, widthAliases},
		{FieldHeight, heightAliases},
		{FieldLength, lengthAliases},
	}
	for _, d := range dims {
		row.Values[d.field] = ""
		if cat == nil {
			continue
		}
		if f, ok := SafeNumber(PickField(*cat, d.aliases)); ok {
			row.Values[d.field] = f
		}
	}
}

// applyCompositionSlots fills the 10 fixed code/quantity pairs from the
// parsed reference, blanking unused slots.
func applyCompositionSlots(row *OutputRow, referenceCode string) {
	tokens := ParseReference(referenceCode)
	if len(tokens) > MaxCompositionSlots {
		tokens = tokens[:MaxCompositionSlots]
	}

	for i := 0; i < MaxCompositionSlots; i++ {
		codeField := fmt.Sprintf("Código %d", i+1)
		qtyField := fmt.Sprintf("Quantidade %d", i+1)
		if i < len(tokens) {
			row.Values[codeField] = tokens[i].Code
			row.Values[qtyField] = float64(tokens[i].Quantity)
		} else {
			row.Values[codeField] = ""
			row.Values[qtyField] = ""
		}
	}
}

// storeCodeFlag derives the classification code from the effective store id:
// a digit anywhere marks a store-assigned numeric id, any other non-empty
// value marks an internal alphanumeric id, and absence yields the sentinel.
func storeCodeFlag(storeID string) string {
	if strings.TrimSpace(storeID) == "" {
		return SentinelNull
	}
	if strings.ContainsAny(storeID, "0123456789") {
		return "2"
	}
	return "1"
}
