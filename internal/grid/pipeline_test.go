package grid

import (
	"slices"
	"testing"
)

func pipelineRows() []Row {
	return []Row{
		row("1", map[string]any{"name": "John Doe", "email": "john@example.com", "age": 32.0}),
		row("2", map[string]any{"name": "Jane Smith", "email": "jane@example.com", "age": 28.0}),
		row("3", map[string]any{"name": "Bob", "email": "bob@corp.io", "age": 45.0, "notes": "john's manager"}),
		row("4", map[string]any{"name": "Alice", "age": 28.0}),
		row("5", map[string]any{"name": "Eve"}),
	}
}

func visibleCols(keys ...string) []ColumnDef {
	var out []ColumnDef
	for _, c := range testColumns() {
		if slices.Contains(keys, c.Key) {
			out = append(out, c)
		}
	}
	return out
}

// ============================================================================
// Filter
// ============================================================================

func TestFilter(t *testing.T) {
	rows := pipelineRows()
	visible := visibleCols("name", "email", "age")

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term keeps all", "", []string{"1", "2", "3", "4", "5"}},
		{"whitespace term keeps all", "   ", []string{"1", "2", "3", "4", "5"}},
		{"case-insensitive", "JOHN", []string{"1"}},
		{"matches email", "example.com", []string{"1", "2"}},
		{"matches number", "28", []string{"2", "4"}},
		{"hidden column never matches", "manager", []string{}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(rows, tt.term, visible))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestFilter_NoVisibleColumns(t *testing.T) {
	if got := Filter(pipelineRows(), "john", nil); len(got) != 0 {
		t.Errorf("Filter with no visible columns = %v, want empty", ids(got))
	}
}

// ============================================================================
// Sort
// ============================================================================

func TestSort_Numbers(t *testing.T) {
	age, _ := testColumnByKey("age")

	asc := Sort(pipelineRows(), SortSpec{Column: "age", Direction: SortAsc}, age)
	// Eve has no age and sorts first; 2 and 4 tie and keep input order.
	if got, want := ids(asc), []string{"5", "2", "4", "1", "3"}; !slices.Equal(got, want) {
		t.Errorf("asc = %v, want %v", got, want)
	}

	desc := Sort(asc, SortSpec{Column: "age", Direction: SortDesc}, age)
	if got, want := ids(desc), []string{"3", "1", "2", "4", "5"}; !slices.Equal(got, want) {
		t.Errorf("desc of asc = %v, want %v", got, want)
	}
}

func TestSort_NumbersNotLexicographic(t *testing.T) {
	age, _ := testColumnByKey("age")
	rows := []Row{
		row("a", map[string]any{"age": 100.0}),
		row("b", map[string]any{"age": 9.0}),
		row("c", map[string]any{"age": 20.0}),
	}
	got := ids(Sort(rows, SortSpec{Column: "age", Direction: SortAsc}, age))
	if want := []string{"b", "c", "a"}; !slices.Equal(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSort_NumberColumnWithTextLeftover(t *testing.T) {
	age, _ := testColumnByKey("age")
	rows := []Row{
		row("a", map[string]any{"age": "unknown"}),
		row("b", map[string]any{"age": 40.0}),
		row("c", map[string]any{"age": 30.0}),
	}
	got := ids(Sort(rows, SortSpec{Column: "age", Direction: SortAsc}, age))
	if want := []string{"c", "b", "a"}; !slices.Equal(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSort_Text(t *testing.T) {
	name, _ := testColumnByKey("name")
	got := ids(Sort(pipelineRows(), SortSpec{Column: "name", Direction: SortAsc}, name))
	if want := []string{"4", "3", "5", "2", "1"}; !slices.Equal(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSort_StableOnTies(t *testing.T) {
	name, _ := testColumnByKey("name")
	rows := []Row{
		row("1", map[string]any{"name": "same"}),
		row("2", map[string]any{"name": "same"}),
		row("3", map[string]any{"name": "same"}),
	}
	for _, dir := range []SortDirection{SortAsc, SortDesc} {
		got := ids(Sort(rows, SortSpec{Column: "name", Direction: dir}, name))
		if want := []string{"1", "2", "3"}; !slices.Equal(got, want) {
			t.Errorf("Sort %s = %v, want %v", dir, got, want)
		}
	}
}

func TestSort_UnsetKeepsOrder(t *testing.T) {
	rows := pipelineRows()
	got := Sort(rows, SortSpec{}, ColumnDef{})
	if !slices.Equal(ids(got), ids(rows)) {
		t.Errorf("Sort with no column = %v, want %v", ids(got), ids(rows))
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	name, _ := testColumnByKey("name")
	rows := pipelineRows()
	before := ids(rows)
	Sort(rows, SortSpec{Column: "name", Direction: SortDesc}, name)
	if !slices.Equal(ids(rows), before) {
		t.Errorf("input reordered: %v, want %v", ids(rows), before)
	}
}

// ============================================================================
// Paginate
// ============================================================================

func TestPaginate(t *testing.T) {
	rows := numberedRows(11)

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []string
	}{
		{"first page", 0, 5, []string{"1", "2", "3", "4", "5"}},
		{"last partial page", 2, 5, []string{"11"}},
		{"past the end", 3, 5, []string{}},
		{"negative page", -1, 5, []string{}},
		{"zero page size", 0, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Paginate(rows, tt.page, tt.pageSize))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Paginate(%d, %d) = %v, want %v", tt.page, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestPaginate_Reconstructs(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25} {
		for _, size := range []int{1, 3, 10} {
			rows := numberedRows(n)
			var joined []Row
			for p := range TotalPages(n, size) {
				joined = append(joined, Paginate(rows, p, size)...)
			}
			if !slices.Equal(ids(joined), ids(rows)) {
				t.Errorf("n=%d size=%d: pages join to %v, want %v", n, size, ids(joined), ids(rows))
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{15, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func testColumnByKey(key string) (ColumnDef, bool) {
	for _, c := range testColumns() {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnDef{}, false
}
