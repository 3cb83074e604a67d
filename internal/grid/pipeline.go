package grid

// pipeline.go holds the pure stages of the view pipeline:
//
//	Filter -> Sort -> Paginate
//
// None of these functions mutate their input. Each returns a new slice
// that may share Row values with the input.

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Filter keeps rows where at least one visible column's string form contains
// term, case-insensitively. A term that is empty or only whitespace keeps
// every row.
func Filter(rows []Row, term string, visible []ColumnDef) []Row {
	if strings.TrimSpace(term) == "" {
		return slices.Clone(rows)
	}

	needle := strings.ToLower(term)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if rowMatches(r, needle, visible) {
			out = append(out, r)
		}
	}
	return out
}

func rowMatches(r Row, needle string, visible []ColumnDef) bool {
	for _, col := range visible {
		v, ok := r.Get(col.Key)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(valueString(v)), needle) {
			return true
		}
	}
	return false
}

// Sort orders rows by the sort column using a stable sort, so ties keep
// their input order. An unset SortSpec returns the rows unchanged.
func Sort(rows []Row, spec SortSpec, col ColumnDef) []Row {
	out := slices.Clone(rows)
	if !spec.IsSorted() {
		return out
	}

	slices.SortStableFunc(out, func(a, b Row) int {
		av, _ := a.Get(col.Key)
		bv, _ := b.Get(col.Key)
		c := compareValues(col.Type, av, bv)
		if spec.Direction == SortDesc {
			return -c
		}
		return c
	})
	return out
}

// Paginate returns the rows for the zero-based page. A page past the end, or
// a negative page, yields an empty slice; the page is never clamped here.
func Paginate(rows []Row, page, pageSize int) []Row {
	if pageSize <= 0 || page < 0 {
		return []Row{}
	}
	start := page * pageSize
	if start >= len(rows) {
		return []Row{}
	}
	end := min(start+pageSize, len(rows))
	return slices.Clone(rows[start:end])
}

// TotalPages returns ceil(count/pageSize). Zero rows yields zero pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// compareValues orders two field values by the column's declared type.
// Missing values sort before present ones. For number columns, numeric
// values sort before non-numeric leftovers, which compare as text.
func compareValues(t FieldType, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if t == FieldNumber {
		af, aok := asFloat(a)
		bf, bok := asFloat(b)
		switch {
		case aok && bok:
			return cmp.Compare(af, bf)
		case aok:
			return -1
		case bok:
			return 1
		}
	}

	return strings.Compare(valueString(a), valueString(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// valueString renders a stored value the way search and export see it.
func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return fmt.Sprint(v)
}
