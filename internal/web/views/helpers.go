// Package views renders the grid's HTML pages. The components live in
// grid.templ; run `templ generate` after editing it.
package views

import (
	"strings"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

func hasSearch(term string) bool { return strings.TrimSpace(term) != "" }

func sortMark(s grid.SortSpec, key string) string {
	if !s.IsSorted() || s.Column != key {
		return ""
	}
	if s.Direction == grid.SortDesc {
		return " ▼"
	}
	return " ▲"
}
