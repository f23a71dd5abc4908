package core

// errors.go defines the typed failures that abort a reconciliation run.
//
// Only structural, cross-cutting problems belong here. Per-record anomalies
// (an unmatched catalog record, an empty category, an unparseable reference)
// degrade to empty output fields and are never errors.

import "fmt"

// MissingInputError reports a required input file that was not provided.
type MissingInputError struct {
	Input string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Input)
}

// MalformedInputError reports a delimited file that cannot be used: it either
// fails to tokenize or lacks a header and at least one data row.
type MalformedInputError struct {
	Input  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %s", e.Input, e.Reason)
}

// MissingTemplateColumnError reports a structurally required template column
// (hierarchy id columns, reference column, or a composition slot pair) that
// the header resolver could not find.
type MissingTemplateColumnError struct {
	Column string
}

func (e *MissingTemplateColumnError) Error() string {
	return fmt.Sprintf("required template column not found: %s", e.Column)
}

// UnrecoverableWriteError reports a workbook serialization failure.
type UnrecoverableWriteError struct {
	Err error
}

func (e *UnrecoverableWriteError) Error() string {
	return fmt.Sprintf("workbook write failed: %v", e.Err)
}

func (e *UnrecoverableWriteError) Unwrap() error {
	return e.Err
}
