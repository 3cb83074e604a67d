// Package grid provides the state engine behind the interactive data grid.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be driven by web handlers, the gridctl CLI, or tests without
// modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Record Store: the authoritative ordered collection of rows.
//   - Column Registry: the static column catalog plus the ordered set of
//     visible column keys.
//   - View Pipeline: pure filter, sort and paginate stages producing the rows
//     that are displayed.
//   - Edit Session: per-row draft edits that only reach the Record Store on
//     an explicit save.
//   - Import / Export: CSV import with per-row validation and CSV export of
//     the visible columns.
//
// A [Grid] owns one instance of each and exposes the named operations; all
// mutation goes through those operations. A [Service] hosts one Grid per
// registered table and serializes access to it.
//
// # Table Registry
//
// Tables are registered at init time using [Register]:
//
//	grid.Register(grid.TableDefinition{
//	    Info: grid.TableInfo{Key: "employees", Label: "Employees"},
//	    Columns: []grid.ColumnDef{
//	        {Key: "name", Label: "Name", Type: grid.FieldText, Sortable: true, Editable: true, Visible: true},
//	    },
//	    ImportFields: []grid.ImportField{
//	        {Key: "name", RequiredMessage: "Name is required"},
//	    },
//	})
//
// # Error Handling
//
// Per-row import validation failures are collected in the [ImportResult] and
// never abort the batch. Structural CSV failures surface as a [*ParseError].
// Lookup misses (unknown row id, unknown column key) are silent no-ops.
// Technical errors are mapped to user-facing messages with [MapError].
package grid
