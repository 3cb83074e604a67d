// Package tables registers the grid's table catalogs.
//
// Import this package for its side effects:
//
//	import _ "github.com/JonMunkholm/datagrid/internal/grid/tables"
package tables

func init() {
	registerEmployees()
}
