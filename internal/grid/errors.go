package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTable is returned when a table key is not registered.
	ErrUnknownTable = errors.New("unknown table")

	// ErrEmptyFile is returned when an import source has no header row.
	ErrEmptyFile = errors.New("file is empty")

	// ErrNotCSV is returned when an import source is neither a .csv file nor text/csv.
	ErrNotCSV = errors.New("file is not a CSV")

	// ErrFileTooLarge is returned when an import source exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when an import request carries no file.
	ErrNoFile = errors.New("no file provided")
)

// ParseError reports a structural CSV failure, as opposed to a row that
// failed validation.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
