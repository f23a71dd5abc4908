package core

// error_messages.go maps technical pipeline errors onto user-friendly
// messages with codes for support reference.
//
// Error codes are grouped by category:
//
//	ING001 - Missing input: a required export file was not provided
//	ING002 - Malformed input: a file could not be tokenized or has no data
//	TPL001 - Missing template column: a structurally required column absent
//	WRT001 - Write failure: the output workbook could not be serialized
//	RUN001 - System busy: too many concurrent runs
//	RUN002 - Request cancelled
//	RUN003 - Request timeout
//	FILE001 - File too large
//	ERR000 - Unknown error (fallback)
//
// Patterns are matched case-insensitively with strings.Contains; the first
// matching pattern wins, so more specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Ingest Errors (ING001-ING002)
	// =========================================================================
	{
		pattern: "missing required input",
		msg: UserMessage{
			Message: "A required export file was not provided",
			Action:  "Attach the catalog, linkage and template files and try again",
			Code:    "ING001",
		},
	},
	{
		pattern: "malformed input",
		msg: UserMessage{
			Message: "An export file could not be read",
			Action:  "Re-export the file as semicolon-separated text with a header row",
			Code:    "ING002",
		},
	},

	// =========================================================================
	// Template Errors (TPL001)
	// =========================================================================
	{
		pattern: "required template column not found",
		msg: UserMessage{
			Message: "The output template is missing a required column",
			Action:  "Use an unmodified copy of the official template",
			Code:    "TPL001",
		},
	},

	// =========================================================================
	// Write Errors (WRT001)
	// =========================================================================
	{
		pattern: "workbook write failed",
		msg: UserMessage{
			Message: "The output spreadsheet could not be generated",
			Action:  "Please try again or contact support",
			Code:    "WRT001",
		},
	},

	// =========================================================================
	// Run Errors (RUN001-RUN003)
	// =========================================================================
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "Too many reconciliations are in progress",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try smaller export files or check your connection",
			Code:    "RUN003",
		},
	},

	// =========================================================================
	// File Errors (FILE001)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "A file exceeds the maximum size limit",
			Action:  "Split the export into smaller files",
			Code:    "FILE001",
		},
	},
}

// defaultMessage is the fallback when no specific pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Patterns are matched case-insensitively; first match wins.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
