package grid

import (
	"encoding/json"
	"fmt"
	"maps"
)

// FieldType is the declared data type of a column.
// Comparison and formatting dispatch on this type, never on the runtime
// type of a stored value.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldEmail  FieldType = "email"
	FieldDate   FieldType = "date"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldEmail, FieldDate:
		return true
	}
	return false
}

// ColumnDef describes a single column of the catalog.
type ColumnDef struct {
	Key      string    `json:"key" yaml:"key"`           // Field key on Row
	Label    string    `json:"label" yaml:"label"`       // Display name, also the export header
	Type     FieldType `json:"type" yaml:"type"`         // Declared type
	Sortable bool      `json:"sortable" yaml:"sortable"` // Column may be used as sort key
	Editable bool      `json:"editable" yaml:"editable"` // Column accepts draft edits
	Visible  bool      `json:"visible" yaml:"visible"`   // Initial visibility only
	Currency bool      `json:"currency,omitempty" yaml:"currency"`
}

// Row is an identified record. ID is immutable for the lifetime of the row.
// Fields holds number values as float64 and every other type as string;
// a missing key means null.
type Row struct {
	ID     string
	Fields map[string]any
}

// Get returns the stored value for key and whether it is present.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// clone returns a copy of the row with its own field map.
func (r Row) clone() Row {
	return Row{ID: r.ID, Fields: maps.Clone(r.Fields)}
}

// MarshalJSON flattens the row into a single object with an "id" member.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	return json.Marshal(out)
}

// SortDirection is the polarity of a sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection normalizes s to a SortDirection, defaulting to ascending.
func ParseSortDirection(s string) SortDirection {
	if SortDirection(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// SortSpec is the active sort. An empty Column means insertion order.
type SortSpec struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// IsSorted reports whether a sort column is set.
func (s SortSpec) IsSorted() bool {
	return s.Column != ""
}

func (s SortSpec) String() string {
	if !s.IsSorted() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", s.Column, s.Direction)
}

// Pagination is the current page window. Page is zero-based.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Draft holds pending field values for a row in edit mode.
type Draft map[string]any

// ImportError is a per-row import failure. Row is the data-record index + 2,
// counting the header as row 1. Blank lines are not counted and a quoted
// field spanning several lines is still one record.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"error"`
}

// ImportResult is the outcome of one import attempt.
type ImportResult struct {
	AcceptedCount int           `json:"acceptedCount"`
	Errors        []ImportError `json:"errors"`
	AcceptedRows  []Row         `json:"acceptedRows"`
}

// Failed reports whether no row was accepted and at least one error was recorded.
func (r ImportResult) Failed() bool {
	return r.AcceptedCount == 0 && len(r.Errors) > 0
}
