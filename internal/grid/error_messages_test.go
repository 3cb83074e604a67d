package grid

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "parse error",
			err:         &ParseError{Err: csv.ErrQuote},
			wantCode:    "FILE002",
			wantMessage: ParseFailureMessage,
		},
		{
			name:        "wrapped file too large",
			err:         fmt.Errorf("%w: limit is 10 bytes", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum import size",
		},
		{
			name:        "not a csv",
			err:         ErrNotCSV,
			wantCode:    "FILE003",
			wantMessage: "File is not a CSV",
		},
		{
			name:        "no file",
			err:         ErrNoFile,
			wantCode:    "FILE004",
			wantMessage: "No file was selected",
		},
		{
			name:        "empty file",
			err:         ErrEmptyFile,
			wantCode:    "FILE005",
			wantMessage: "The file is empty",
		},
		{
			name:        "too many imports",
			err:         ErrTooManyImports,
			wantCode:    "IMP001",
			wantMessage: "Too many imports in progress",
		},
		{
			name:        "cancelled",
			err:         fmt.Errorf("import: %w", context.Canceled),
			wantCode:    "IMP002",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "IMP003",
			wantMessage: "Request timed out",
		},
		{
			name:        "unknown table",
			err:         fmt.Errorf("%w: orders", ErrUnknownTable),
			wantCode:    "TBL001",
			wantMessage: "Table not found",
		},
		{
			name:        "required field text",
			err:         ValidationError{Field: "name", Message: "Name is required"},
			wantCode:    "VAL003",
			wantMessage: "Required field is empty",
		},
		{
			name:        "email text",
			err:         errors.New("Invalid email format"),
			wantCode:    "VAL004",
			wantMessage: "Invalid email address",
		},
		{
			name:        "range text",
			err:         errors.New("Age must be between 18 and 100"),
			wantCode:    "VAL005",
			wantMessage: "Value is out of range",
		},
		{
			name:        "unknown error uses default",
			err:         errors.New("something weird happened"),
			wantCode:    "GEN000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrEmptyFile)
	want := "The file is empty (Code: FILE005). Please import a CSV file with a header row"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrNotCSV, true},
		{"unknown", errors.New("random failure"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
