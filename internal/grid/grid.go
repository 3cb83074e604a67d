package grid

import (
	"errors"
	"io"
)

// DefaultPageSize is used when a Grid is configured without a page size.
const DefaultPageSize = 10

// GridConfig holds the per-grid settings.
type GridConfig struct {
	PageSize    int  // Rows per page; DefaultPageSize when zero
	StrictDates bool // Reject imported rows with unparseable dates

	// OnVisibleChange is called with the new visible keys after a toggle or a
	// bulk visibility change. Reordering does not trigger it.
	OnVisibleChange func(keys []string)
}

// Grid owns the complete state of one table: rows, columns, view parameters,
// edit session and the last import result. All mutation goes through its
// methods. A Grid is not safe for concurrent use; see Service.
type Grid struct {
	info     TableInfo
	columns  *ColumnRegistry
	store    *RecordStore
	edits    *EditSession
	importer *Importer

	search     string
	sort       SortSpec
	page       int
	pageSize   int
	lastImport *ImportResult

	onVisibleChange func([]string)
}

// NewGrid creates a grid for def, loaded with def's seed rows.
func NewGrid(def TableDefinition, cfg GridConfig) (*Grid, error) {
	cols, err := NewColumnRegistry(def.Columns)
	if err != nil {
		return nil, err
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	importer := NewImporter(def.ImportFields)
	importer.StrictDates = cfg.StrictDates

	return &Grid{
		info:            def.Info,
		columns:         cols,
		store:           NewRecordStore(def.Seed...),
		edits:           NewEditSession(),
		importer:        importer,
		sort:            SortSpec{Direction: SortAsc},
		pageSize:        pageSize,
		onVisibleChange: cfg.OnVisibleChange,
	}, nil
}

// Info returns the table's identity.
func (g *Grid) Info() TableInfo { return g.info }

// Importer returns the grid's CSV importer. It holds no grid state and may be
// used without holding the grid.
func (g *Grid) Importer() *Importer { return g.importer }

// ============================================================================
// View parameters
// ============================================================================

// SetSearchTerm replaces the search term and returns to the first page.
func (g *Grid) SetSearchTerm(term string) {
	g.search = term
	g.page = 0
}

// SetSort sorts by column. Unknown or non-sortable columns are ignored;
// an empty column clears the sort.
func (g *Grid) SetSort(column string, dir SortDirection) {
	if column == "" {
		g.sort = SortSpec{Direction: dir}
		return
	}
	col, ok := g.columns.Column(column)
	if !ok || !col.Sortable {
		return
	}
	g.sort = SortSpec{Column: column, Direction: dir}
}

// SetPage moves to a zero-based page. Negative pages become 0; a page past
// the end is kept and renders empty.
func (g *Grid) SetPage(page int) {
	g.page = max(page, 0)
}

// ============================================================================
// Columns
// ============================================================================

// ToggleVisibility shows a hidden column at the end or hides a visible one.
func (g *Grid) ToggleVisibility(key string) {
	if g.columns.ToggleVisibility(key) {
		g.visibleChanged()
	}
}

// SetVisibleColumns replaces the visible columns; unknown keys are dropped.
func (g *Grid) SetVisibleColumns(keys []string) {
	g.columns.SetVisibleColumns(keys)
	g.visibleChanged()
}

// ReorderColumns moves a visible column from one display position to another.
func (g *Grid) ReorderColumns(from, to int) {
	g.columns.Reorder(from, to)
}

// VisibleKeys returns the visible column keys in display order.
func (g *Grid) VisibleKeys() []string {
	return g.columns.VisibleKeys()
}

func (g *Grid) visibleChanged() {
	if g.onVisibleChange != nil {
		g.onVisibleChange(g.columns.VisibleKeys())
	}
}

// ============================================================================
// Rows
// ============================================================================

// Row returns the stored row for id.
func (g *Grid) Row(id string) (Row, bool) {
	return g.store.Get(id)
}

// Rows returns every stored row in insertion order.
func (g *Grid) Rows() []Row {
	return g.store.Snapshot()
}

// DeleteRow removes a row and any edit in progress for it, then pulls the
// page back onto the last page if it fell off the end.
func (g *Grid) DeleteRow(id string) bool {
	if !g.store.Remove(id) {
		return false
	}
	g.edits.Cancel(id)

	total := TotalPages(g.FilteredCount(), g.pageSize)
	if g.page >= total && total > 0 {
		g.page = total - 1
	}
	return true
}

// ============================================================================
// Edit session
// ============================================================================

// StartEditing puts a row into edit mode. Unknown ids are ignored.
func (g *Grid) StartEditing(id string) {
	if !g.store.Has(id) {
		return
	}
	g.edits.Start(id)
}

// UpdateDraftField records a pending value for an editing row. Rows not in
// edit mode, unknown fields and non-editable fields are ignored.
func (g *Grid) UpdateDraftField(id, field string, value any) {
	col, ok := g.columns.Column(field)
	if !ok || !col.Editable {
		return
	}
	g.edits.Update(id, field, value)
}

// CancelEditing discards a row's draft without touching the stored row.
func (g *Grid) CancelEditing(id string) {
	g.edits.Cancel(id)
}

// SaveEditing folds a row's draft into the stored row and leaves edit mode.
func (g *Grid) SaveEditing(id string) {
	if d, ok := g.edits.Take(id); ok {
		g.fold(id, d)
	}
}

// SaveAll folds every non-empty draft and then clears the edit session.
// Returns the number of rows folded.
func (g *Grid) SaveAll() int {
	pending := g.edits.Drain()
	saved := 0
	for _, p := range pending {
		if g.fold(p.ID, p.Draft) {
			saved++
		}
	}
	return saved
}

// CancelAll discards every draft and leaves edit mode for all rows.
func (g *Grid) CancelAll() {
	g.edits.Clear()
}

// IsEditing reports whether a row is in edit mode.
func (g *Grid) IsEditing(id string) bool {
	return g.edits.IsEditing(id)
}

// EditingIDs returns the rows in edit mode in the order editing started.
func (g *Grid) EditingIDs() []string {
	return g.edits.EditingIDs()
}

// Draft returns a copy of a row's pending values.
func (g *Grid) Draft(id string) (Draft, bool) {
	return g.edits.Draft(id)
}

// DisplayValue renders a row's field for display: the draft value when the
// row is editing and has one, otherwise the stored value.
func (g *Grid) DisplayValue(r Row, key string) string {
	col, ok := g.columns.Column(key)
	if !ok {
		return EmptyPlaceholder
	}
	if g.edits.IsEditing(r.ID) {
		if d, ok := g.edits.Draft(r.ID); ok {
			if v, ok := d[key]; ok {
				return FormatValue(col, CoerceValue(col, v))
			}
		}
	}
	v, _ := r.Get(key)
	return FormatValue(col, v)
}

func (g *Grid) fold(id string, d Draft) bool {
	updates := make(map[string]any, len(d))
	for key, v := range d {
		col, ok := g.columns.Column(key)
		if !ok {
			continue
		}
		updates[key] = CoerceValue(col, v)
	}
	return g.store.ApplyFieldUpdates(id, updates)
}

// ============================================================================
// Import / export
// ============================================================================

// ImportCSV validates r and applies the result. A structural failure is
// recorded as a single synthetic error and returned.
func (g *Grid) ImportCSV(r io.Reader) (ImportResult, error) {
	result, err := g.importer.Import(r)
	if err != nil {
		return g.RecordImportFailure(err), err
	}
	g.ApplyImport(result)
	return result, nil
}

// ApplyImport appends the accepted rows, if any, and records the result.
func (g *Grid) ApplyImport(result ImportResult) {
	if result.AcceptedCount > 0 {
		g.store.Append(result.AcceptedRows...)
	}
	g.lastImport = &result
}

// RecordImportFailure records the result shown for an import that could not
// be read at all, and returns it.
func (g *Grid) RecordImportFailure(err error) ImportResult {
	result := ParseFailure()
	var pe *ParseError
	if !errors.As(err, &pe) {
		result.Errors[0].Message = MapError(err).Message
	}
	g.lastImport = &result
	return result
}

// LastImport returns the most recent import result.
func (g *Grid) LastImport() (ImportResult, bool) {
	if g.lastImport == nil {
		return ImportResult{}, false
	}
	return *g.lastImport, true
}

// ClearImportResult forgets the most recent import result.
func (g *Grid) ClearImportResult() {
	g.lastImport = nil
}

// Export serializes every stored row over the visible columns.
func (g *Grid) Export() ([]byte, error) {
	return ExportCSV(g.store.Snapshot(), g.columns.VisibleColumns())
}

// ExportView serializes the rows matching the search term, in sort order,
// over the visible columns.
func (g *Grid) ExportView() ([]byte, error) {
	return ExportCSV(g.ViewRows(), g.columns.VisibleColumns())
}

// ============================================================================
// View
// ============================================================================

// ViewRow is one displayed row.
type ViewRow struct {
	Row     Row      `json:"row"`
	Cells   []string `json:"cells"` // Display values, in visible column order
	Editing bool     `json:"editing"`
	Draft   Draft    `json:"draft,omitempty"`
}

// View is a read-only snapshot of everything the presentation layer renders.
type View struct {
	Table          TableInfo     `json:"table"`
	Columns        []ColumnDef   `json:"columns"`    // Visible, in display order
	AllColumns     []ColumnDef   `json:"allColumns"` // Full catalog
	Rows           []ViewRow     `json:"rows"`
	SearchTerm     string        `json:"searchTerm"`
	Sort           SortSpec      `json:"sort"`
	Pagination     Pagination    `json:"pagination"`
	FilteredCount  int           `json:"filteredCount"`
	TotalRows      int           `json:"totalRows"`
	EditingIDs     []string      `json:"editingIds"`
	LastImport     *ImportResult `json:"lastImport,omitempty"`
	HasPendingEdit bool          `json:"hasPendingEdits"`
}

// FilteredCount returns the number of rows matching the search term.
func (g *Grid) FilteredCount() int {
	return len(Filter(g.store.Snapshot(), g.search, g.columns.VisibleColumns()))
}

// Pagination returns the current page window over the filtered rows.
func (g *Grid) Pagination() Pagination {
	return Pagination{
		Page:       g.page,
		PageSize:   g.pageSize,
		TotalPages: TotalPages(g.FilteredCount(), g.pageSize),
	}
}

// SortSpec returns the active sort.
func (g *Grid) SortSpec() SortSpec { return g.sort }

// SearchTerm returns the active search term.
func (g *Grid) SearchTerm() string { return g.search }

// DisplayRows runs the view pipeline and returns the rows on the current page.
func (g *Grid) DisplayRows() []Row {
	rows, _ := g.pipeline()
	return rows
}

// ViewRows returns the rows matching the search term in sort order, across
// all pages.
func (g *Grid) ViewRows() []Row {
	rows := Filter(g.store.Snapshot(), g.search, g.columns.VisibleColumns())
	if g.sort.IsSorted() {
		col, _ := g.columns.Column(g.sort.Column)
		rows = Sort(rows, g.sort, col)
	}
	return rows
}

func (g *Grid) pipeline() (page []Row, filtered int) {
	rows := g.ViewRows()
	return Paginate(rows, g.page, g.pageSize), len(rows)
}

// View builds the current display snapshot.
func (g *Grid) View() View {
	rows, filtered := g.pipeline()
	visible := g.columns.VisibleColumns()

	v := View{
		Table:      g.info,
		Columns:    visible,
		AllColumns: g.columns.All(),
		Rows:       make([]ViewRow, 0, len(rows)),
		SearchTerm: g.search,
		Sort:       g.sort,
		Pagination: Pagination{
			Page:       g.page,
			PageSize:   g.pageSize,
			TotalPages: TotalPages(filtered, g.pageSize),
		},
		FilteredCount:  filtered,
		TotalRows:      g.store.Len(),
		EditingIDs:     g.edits.EditingIDs(),
		HasPendingEdit: g.edits.Len() > 0,
	}
	if g.lastImport != nil {
		li := *g.lastImport
		v.LastImport = &li
	}

	for _, r := range rows {
		vr := ViewRow{
			Row:     r,
			Cells:   make([]string, len(visible)),
			Editing: g.edits.IsEditing(r.ID),
		}
		for i, c := range visible {
			vr.Cells[i] = g.DisplayValue(r, c.Key)
		}
		if vr.Editing {
			vr.Draft, _ = g.edits.Draft(r.ID)
		}
		v.Rows = append(v.Rows, vr)
	}

	if v.EditingIDs == nil {
		v.EditingIDs = []string{}
	}
	return v
}

