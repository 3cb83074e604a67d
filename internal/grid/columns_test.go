package grid

import (
	"slices"
	"testing"
)

func abcdRegistry(t *testing.T) *ColumnRegistry {
	t.Helper()
	r, err := NewColumnRegistry([]ColumnDef{
		{Key: "a", Label: "A", Visible: true},
		{Key: "b", Label: "B", Visible: true},
		{Key: "c", Label: "C", Visible: true},
		{Key: "d", Label: "D", Visible: true},
		{Key: "e", Label: "E"},
	})
	if err != nil {
		t.Fatalf("NewColumnRegistry: %v", err)
	}
	return r
}

func TestNewColumnRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		cols []ColumnDef
	}{
		{"duplicate key", []ColumnDef{{Key: "a"}, {Key: "a"}}},
		{"empty key", []ColumnDef{{Key: ""}}},
		{"unknown type", []ColumnDef{{Key: "a", Type: "currency"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewColumnRegistry(tt.cols); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewColumnRegistry_DefaultsToText(t *testing.T) {
	r, err := NewColumnRegistry([]ColumnDef{{Key: "a"}})
	if err != nil {
		t.Fatal(err)
	}
	col, _ := r.Column("a")
	if col.Type != FieldText {
		t.Errorf("Type = %q, want %q", col.Type, FieldText)
	}
}

func TestColumnRegistry_InitialVisibility(t *testing.T) {
	r := abcdRegistry(t)
	if got, want := r.VisibleKeys(), []string{"a", "b", "c", "d"}; !slices.Equal(got, want) {
		t.Errorf("VisibleKeys = %v, want %v", got, want)
	}
	if r.IsVisible("e") {
		t.Error("e visible, want hidden")
	}
}

// ============================================================================
// Toggle
// ============================================================================

func TestColumnRegistry_ToggleHideThenShowAppends(t *testing.T) {
	r := abcdRegistry(t)

	r.ToggleVisibility("b")
	if got, want := r.VisibleKeys(), []string{"a", "c", "d"}; !slices.Equal(got, want) {
		t.Errorf("after hide: %v, want %v", got, want)
	}

	r.ToggleVisibility("b")
	if got, want := r.VisibleKeys(), []string{"a", "c", "d", "b"}; !slices.Equal(got, want) {
		t.Errorf("after re-show: %v, want %v", got, want)
	}
}

func TestColumnRegistry_ToggleTwiceRestoresMembership(t *testing.T) {
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		t.Run(key, func(t *testing.T) {
			r := abcdRegistry(t)
			before := r.VisibleKeys()

			r.ToggleVisibility(key)
			r.ToggleVisibility(key)

			after := r.VisibleKeys()
			slices.Sort(before)
			slices.Sort(after)
			if !slices.Equal(before, after) {
				t.Errorf("membership %v, want %v", after, before)
			}
		})
	}
}

func TestColumnRegistry_ToggleUnknownKey(t *testing.T) {
	r := abcdRegistry(t)
	if r.ToggleVisibility("zzz") {
		t.Error("ToggleVisibility(unknown) reported a change")
	}
	if got := r.VisibleKeys(); len(got) != 4 {
		t.Errorf("VisibleKeys = %v, want unchanged", got)
	}
}

func TestColumnRegistry_ToggleCanEmpty(t *testing.T) {
	r := abcdRegistry(t)
	for _, k := range []string{"a", "b", "c", "d"} {
		r.ToggleVisibility(k)
	}
	if got := r.VisibleColumns(); len(got) != 0 {
		t.Errorf("VisibleColumns = %v, want empty", got)
	}
}

// ============================================================================
// Set / reorder
// ============================================================================

func TestColumnRegistry_SetVisibleColumns(t *testing.T) {
	r := abcdRegistry(t)
	r.SetVisibleColumns([]string{"e", "a", "ghost", "e", "c"})

	if got, want := r.VisibleKeys(), []string{"e", "a", "c"}; !slices.Equal(got, want) {
		t.Errorf("VisibleKeys = %v, want %v", got, want)
	}
}

func TestColumnRegistry_Reorder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"same index", 1, 1, []string{"a", "b", "c", "d"}},
		{"to past end clamps", 0, 10, []string{"b", "c", "d", "a"}},
		{"negative from clamps", -5, 1, []string{"b", "a", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := abcdRegistry(t)
			r.Reorder(tt.from, tt.to)
			if got := r.VisibleKeys(); !slices.Equal(got, tt.want) {
				t.Errorf("Reorder(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestColumnRegistry_ReorderAdjacentRoundTrip(t *testing.T) {
	r := abcdRegistry(t)
	r.Reorder(1, 2)
	r.Reorder(2, 1)
	if got, want := r.VisibleKeys(), []string{"a", "b", "c", "d"}; !slices.Equal(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestColumnRegistry_ReorderEmpty(t *testing.T) {
	r := abcdRegistry(t)
	r.SetVisibleColumns(nil)
	r.Reorder(0, 1)
	if got := r.VisibleKeys(); len(got) != 0 {
		t.Errorf("VisibleKeys = %v, want empty", got)
	}
}
