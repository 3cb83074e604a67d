package grid

import (
	"fmt"
	"slices"
)

// ColumnRegistry holds the static column catalog and the ordered list of
// visible column keys. The catalog never changes after construction; only
// visibility and order do.
type ColumnRegistry struct {
	all     []ColumnDef
	byKey   map[string]int
	visible []string
}

// NewColumnRegistry builds a registry from the catalog. Initial visibility
// follows each column's Visible flag in catalog order.
func NewColumnRegistry(cols []ColumnDef) (*ColumnRegistry, error) {
	r := &ColumnRegistry{
		all:   slices.Clone(cols),
		byKey: make(map[string]int, len(cols)),
	}

	for i, c := range cols {
		if c.Key == "" {
			return nil, fmt.Errorf("column %d: empty key", i)
		}
		if _, dup := r.byKey[c.Key]; dup {
			return nil, fmt.Errorf("duplicate column key %q", c.Key)
		}
		if c.Type != "" && !c.Type.Valid() {
			return nil, fmt.Errorf("column %q: unknown type %q", c.Key, c.Type)
		}
		if c.Type == "" {
			r.all[i].Type = FieldText
		}
		r.byKey[c.Key] = i
		if c.Visible {
			r.visible = append(r.visible, c.Key)
		}
	}

	return r, nil
}

// All returns the full catalog in declaration order.
func (r *ColumnRegistry) All() []ColumnDef {
	return slices.Clone(r.all)
}

// Column returns the definition for key.
func (r *ColumnRegistry) Column(key string) (ColumnDef, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return ColumnDef{}, false
	}
	return r.all[i], true
}

// IsVisible reports whether key is currently visible.
func (r *ColumnRegistry) IsVisible(key string) bool {
	return slices.Contains(r.visible, key)
}

// VisibleKeys returns the visible column keys in display order.
func (r *ColumnRegistry) VisibleKeys() []string {
	return slices.Clone(r.visible)
}

// VisibleColumns returns definitions for the visible columns in display order.
func (r *ColumnRegistry) VisibleColumns() []ColumnDef {
	out := make([]ColumnDef, 0, len(r.visible))
	for _, key := range r.visible {
		out = append(out, r.all[r.byKey[key]])
	}
	return out
}

// ToggleVisibility removes key if visible, otherwise appends it to the end.
// Unknown keys are ignored. Returns whether the visible list changed.
func (r *ColumnRegistry) ToggleVisibility(key string) bool {
	if _, ok := r.byKey[key]; !ok {
		return false
	}

	if i := slices.Index(r.visible, key); i >= 0 {
		r.visible = slices.Delete(r.visible, i, i+1)
		return true
	}

	r.visible = append(r.visible, key)
	return true
}

// SetVisibleColumns replaces the visible list. Unknown keys and duplicates
// are dropped; the first occurrence wins.
func (r *ColumnRegistry) SetVisibleColumns(keys []string) {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := r.byKey[k]; !ok || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	r.visible = out
}

// Reorder moves the visible key at from to position to. Indices outside the
// visible list are clamped to its bounds; an empty list is left unchanged.
func (r *ColumnRegistry) Reorder(from, to int) {
	n := len(r.visible)
	if n == 0 {
		return
	}
	from = clamp(from, 0, n-1)
	to = clamp(to, 0, n-1)
	if from == to {
		return
	}

	key := r.visible[from]
	r.visible = slices.Delete(r.visible, from, from+1)
	r.visible = slices.Insert(r.visible, to, key)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
