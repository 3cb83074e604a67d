package grid

// import.go validates CSV text into rows.
//
// Processing is all-or-nothing at the structural level and best-effort at
// the row level:
//  1. The whole source is read, BOM-stripped and UTF-8 sanitized
//  2. A malformed CSV structure fails the import with a *ParseError
//  3. Each data row is validated field by field in declaration order,
//     stopping at that row's first failure
//
// Row numbers are the data-record index + 2, so the first record after the
// header is row 2. They count records, not physical lines.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ImportedIDPrefix prefixes the id of every row created by an import.
const ImportedIDPrefix = "imported-"

// ParseFailureMessage is the message of the synthetic error entry recorded
// when the CSV structure itself cannot be read.
const ParseFailureMessage = "Failed to parse CSV file"

// ImportField describes how one CSV column becomes a row field.
type ImportField struct {
	Key             string            // Row field key; also the CSV header, case-insensitive
	Type            FieldType         // Storage type; number and date values are converted
	RequiredMessage string            // Non-empty makes the field required
	Rules           []validation.Rule // Applied to the trimmed, non-empty cell
	InvalidMessage  string            // Reported when Type conversion fails
}

// Importer turns CSV text into validated rows.
type Importer struct {
	Fields []ImportField

	// StrictDates rejects rows whose date fields cannot be parsed.
	// When false the trimmed text is stored as-is.
	StrictDates bool

	// NewID generates row ids. Defaults to ImportedIDPrefix plus a random UUID.
	NewID func() string
}

// NewImporter creates an importer for fields with strict date handling.
func NewImporter(fields []ImportField) *Importer {
	return &Importer{Fields: fields, StrictDates: true}
}

// Import reads the entire source and validates every data row.
//
// Row validation failures are collected in the result and never returned as
// an error. A structural failure returns a *ParseError; a source without a
// header row returns ErrEmptyFile.
func (im *Importer) Import(r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv: %w", err)
	}

	records, err := parseCSV(sanitizeUTF8(stripBOM(data)))
	if err != nil {
		return ImportResult{}, err
	}
	if len(records) == 0 || isEmptyRow(records[0]) {
		return ImportResult{}, ErrEmptyFile
	}

	headerIdx := MakeHeaderIndex(records[0])
	result := ImportResult{
		Errors:       []ImportError{},
		AcceptedRows: []Row{},
	}

	for idx, record := range records[1:] {
		lineNum := idx + 2 // record index plus header row

		if isEmptyRow(record) {
			continue
		}

		fields, err := im.buildRow(record, headerIdx)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: lineNum, Message: err.Error()})
			continue
		}

		result.AcceptedRows = append(result.AcceptedRows, Row{ID: im.newID(), Fields: fields})
	}

	result.AcceptedCount = len(result.AcceptedRows)
	return result, nil
}

// ParseFailure is the result recorded in place of a real one when the CSV
// structure cannot be read.
func ParseFailure() ImportResult {
	return ImportResult{
		Errors:       []ImportError{{Row: 1, Message: ParseFailureMessage}},
		AcceptedRows: []Row{},
	}
}

// buildRow validates one record, returning the first failure.
func (im *Importer) buildRow(record []string, headerIdx HeaderIndex) (map[string]any, error) {
	fields := make(map[string]any, len(im.Fields))

	for _, f := range im.Fields {
		raw := headerIdx.Cell(record, f.Key)

		if raw == "" {
			if f.RequiredMessage != "" {
				return nil, ValidationError{Field: f.Key, Message: f.RequiredMessage}
			}
			continue
		}

		if err := validation.Validate(raw, f.Rules...); err != nil {
			return nil, ValidationError{Field: f.Key, Value: raw, Message: validationMessage(err)}
		}

		v, err := im.convert(f, raw)
		if err != nil {
			return nil, err
		}
		fields[f.Key] = v
	}

	return fields, nil
}

func (im *Importer) convert(f ImportField, raw string) (any, error) {
	switch f.Type {
	case FieldNumber:
		n, ok := ParseNumber(raw)
		if !ok {
			return nil, ValidationError{Field: f.Key, Value: raw, Message: f.invalidMessage()}
		}
		return n, nil
	case FieldDate:
		d, ok := NormalizeDate(raw)
		if ok {
			return d, nil
		}
		if im.StrictDates {
			return nil, ValidationError{Field: f.Key, Value: raw, Message: f.invalidMessage()}
		}
		return raw, nil
	}
	return raw, nil
}

func (f ImportField) invalidMessage() string {
	if f.InvalidMessage != "" {
		return f.InvalidMessage
	}
	return fmt.Sprintf("Invalid %s", f.Key)
}

func (im *Importer) newID() string {
	if im.NewID != nil {
		return im.NewID()
	}
	return ImportedIDPrefix + uuid.NewString()
}

// ValidationError is a single field failure within an imported row.
// Its Error text is the user-facing message.
type ValidationError struct {
	Field   string // Field key
	Value   string // The rejected value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	return e.Message
}

// validationMessage unwraps ozzo errors to their message text.
func validationMessage(err error) string {
	var ve validation.Error
	if errors.As(err, &ve) {
		return ve.Message()
	}
	return err.Error()
}

// Helper functions

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
