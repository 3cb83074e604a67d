package grid

import (
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// testColumns is a small employee-like catalog used across tests.
func testColumns() []ColumnDef {
	return []ColumnDef{
		{Key: "name", Label: "Name", Type: FieldText, Sortable: true, Editable: true, Visible: true},
		{Key: "email", Label: "Email", Type: FieldEmail, Sortable: true, Editable: true, Visible: true},
		{Key: "age", Label: "Age", Type: FieldNumber, Sortable: true, Editable: true, Visible: true},
		{Key: "salary", Label: "Salary", Type: FieldNumber, Sortable: true, Editable: true, Currency: true},
		{Key: "hireDate", Label: "Hire Date", Type: FieldDate, Sortable: true, Editable: true},
		{Key: "notes", Label: "Notes", Type: FieldText},
	}
}

func testImportFields() []ImportField {
	return []ImportField{
		{Key: "name", RequiredMessage: "Name is required"},
		{
			Key:             "email",
			RequiredMessage: "Email is required",
			Rules:           []validation.Rule{Email("Invalid email format")},
		},
		{
			Key:   "age",
			Type:  FieldNumber,
			Rules: []validation.Rule{IntRange(18, 100, "Age must be between 18 and 100")},
		},
		{
			Key:   "salary",
			Type:  FieldNumber,
			Rules: []validation.Rule{NonNegativeNumber("Salary must be a positive number")},
		},
		{Key: "hireDate", Type: FieldDate, InvalidMessage: "Invalid hire date"},
	}
}

func testDefinition(rows ...Row) TableDefinition {
	return TableDefinition{
		Info:         TableInfo{Key: "people", Label: "People"},
		Columns:      testColumns(),
		ImportFields: testImportFields(),
		Seed:         rows,
	}
}

func row(id string, fields map[string]any) Row {
	return Row{ID: id, Fields: fields}
}

// numberedRows builds n rows with ids "1".."n" and names "Person 1".."Person n".
func numberedRows(n int) []Row {
	rows := make([]Row, n)
	for i := range n {
		id := strconv.Itoa(i + 1)
		rows[i] = row(id, map[string]any{
			"name": fmt.Sprintf("Person %d", i+1),
			"age":  float64(20 + i),
		})
	}
	return rows
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func newTestGrid(rows ...Row) *Grid {
	g, err := NewGrid(testDefinition(rows...), GridConfig{PageSize: 10, StrictDates: true})
	if err != nil {
		panic(err)
	}
	return g
}
