// Package core implements the spreadsheet reconciliation engine.
//
// The engine is a single-pass batch pipeline: it ingests a product catalog
// export, a store-listing linkage export and a fixed-schema template
// workbook, cross-references the records through a cascade of imprecise
// matching rules, and writes one consolidated row per store listing into the
// template without disturbing its styling.
//
// # Pipeline
//
// A run moves through the stages
//
//	Idle -> Ingesting -> Resolving -> Assembling -> Writing -> Done
//
// with a single Failed terminal state reachable from any stage. Only
// structural problems fail a run: a required input missing, a file that
// cannot be tokenized, a structurally required template column absent, or a
// workbook serialization error. Per-record anomalies (an unmatched catalog
// record, an empty category, an unparseable reference) degrade to empty
// output fields and the run continues.
//
// # Matching
//
// The exports share no reliable key. [ResolveCatalogRecord] cascades through
// identity, SKU/code and name-substring rules, first structural match wins.
// [PickField] applies the same philosophy to field names, which vary by
// export (accents, abbreviations, stray whitespace).
//
// # Ownership
//
// Every run owns its parsed tables, parent index and output workbook;
// nothing is shared between concurrent runs except the read-only alias
// tables. The [Service] is safe for concurrent use and bounds parallel runs
// with a semaphore limiter.
//
// This package has no transport dependencies and is driven by web handlers,
// CLI tools, or tests without modification.
package core
