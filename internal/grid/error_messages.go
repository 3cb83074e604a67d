package grid

// # Error Codes Reference
//
// Errors shown to users carry a code they can quote to support.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum import size
//	FILE002 - Invalid CSV: The CSV structure could not be read
//	FILE003 - Not a CSV: File is neither .csv nor text/csv
//	FILE004 - No file: No file was selected
//	FILE005 - Empty file: The file has no header row
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date
//	VAL002 - Invalid number
//	VAL003 - Required field
//	VAL004 - Invalid email
//	VAL005 - Out of range
//	VAL006 - Invalid request
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Too many imports in progress
//	IMP002 - Request cancelled
//	IMP003 - Request timeout
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Unknown table
//
// GEN000 is the fallback for anything unrecognized.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage represents a user-friendly error message with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // Human-readable description of what went wrong
	Action  string `json:"action"`  // Suggested action for the user to take
	Code    string `json:"code"`    // Error code for support reference
}

// sentinelMessages are checked first, with errors.Is.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrFileTooLarge, UserMessage{"File exceeds the maximum import size", "Split the file into smaller chunks", "FILE001"}},
	{ErrNotCSV, UserMessage{"File is not a CSV", "Choose a file with a .csv extension", "FILE003"}},
	{ErrNoFile, UserMessage{"No file was selected", "Please select a CSV file to import", "FILE004"}},
	{ErrEmptyFile, UserMessage{"The file is empty", "Please import a CSV file with a header row", "FILE005"}},
	{ErrTooManyImports, UserMessage{"Too many imports in progress", "Please wait a moment and try again", "IMP001"}},
	{context.Canceled, UserMessage{"Request was cancelled", "Please try again", "IMP002"}},
	{context.DeadlineExceeded, UserMessage{"Request timed out", "Try a smaller file or check your connection", "IMP003"}},
	{ErrUnknownTable, UserMessage{"Table not found", "Check the table name and try again", "TBL001"}},
}

// errorPatterns match on the lowercased error text when no sentinel applies.
var errorPatterns = []struct {
	patterns []string
	msg      UserMessage
}{
	{[]string{"invalid date", "hire date"}, UserMessage{"Invalid date format detected", "Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024", "VAL001"}},
	{[]string{"invalid number", "positive number"}, UserMessage{"Invalid number format detected", "Remove letters and use a standard decimal format", "VAL002"}},
	{[]string{"is required"}, UserMessage{"Required field is empty", "Ensure all required columns have values", "VAL003"}},
	{[]string{"invalid email"}, UserMessage{"Invalid email address", "Use the form name@example.com", "VAL004"}},
	{[]string{"must be between"}, UserMessage{"Value is out of range", "Check the allowed range for this field", "VAL005"}},
	{[]string{"invalid request", "invalid json"}, UserMessage{"The request could not be understood", "Check the request body and try again", "VAL006"}},
}

var parseErrorMessage = UserMessage{
	Message: ParseFailureMessage,
	Action:  "Ensure the file is comma-separated with properly quoted fields",
	Code:    "FILE002",
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "GEN000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		return parseErrorMessage
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		for _, p := range ep.patterns {
			if strings.Contains(text, p) {
				return ep.msg
			}
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

// IsUserFacing reports whether err maps to a specific message rather than
// the generic fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
