package tables

import (
	_ "embed"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// EmployeesKey is the key of the employees table.
const EmployeesKey = "employees"

//go:embed seed/employees.yaml
var employeesSeed []byte

var employeeColumns = []grid.ColumnDef{
	{Key: "name", Label: "Name", Type: grid.FieldText, Sortable: true, Editable: true, Visible: true},
	{Key: "email", Label: "Email", Type: grid.FieldEmail, Sortable: true, Editable: true, Visible: true},
	{Key: "age", Label: "Age", Type: grid.FieldNumber, Sortable: true, Editable: true, Visible: true},
	{Key: "role", Label: "Role", Type: grid.FieldText, Sortable: true, Editable: true, Visible: true},
	{Key: "department", Label: "Department", Type: grid.FieldText, Sortable: true, Editable: true, Visible: true},
	{Key: "location", Label: "Location", Type: grid.FieldText, Sortable: true, Editable: true, Visible: true},
	{Key: "salary", Label: "Salary", Type: grid.FieldNumber, Sortable: true, Editable: true, Currency: true},
	{Key: "hireDate", Label: "Hire Date", Type: grid.FieldDate, Sortable: true, Editable: true},
}

// Validation runs in this order and stops at a row's first failure.
var employeeImportFields = []grid.ImportField{
	{Key: "name", RequiredMessage: "Name is required"},
	{
		Key:             "email",
		RequiredMessage: "Email is required",
		Rules:           []validation.Rule{grid.Email("Invalid email format")},
	},
	{
		Key:   "age",
		Type:  grid.FieldNumber,
		Rules: []validation.Rule{grid.IntRange(18, 100, "Age must be between 18 and 100")},
	},
	{Key: "role"},
	{Key: "department"},
	{Key: "location"},
	{
		Key:   "salary",
		Type:  grid.FieldNumber,
		Rules: []validation.Rule{grid.NonNegativeNumber("Salary must be a positive number")},
	},
	{Key: "hireDate", Type: grid.FieldDate, InvalidMessage: "Invalid hire date"},
}

// Employees returns the employees table definition with its seed rows.
func Employees() (grid.TableDefinition, error) {
	seed, err := ParseSeed(employeesSeed, employeeColumns)
	if err != nil {
		return grid.TableDefinition{}, err
	}
	return grid.TableDefinition{
		Info: grid.TableInfo{
			Key:         EmployeesKey,
			Label:       "Employees",
			Description: "Staff directory",
		},
		Columns:      employeeColumns,
		ImportFields: employeeImportFields,
		Seed:         seed,
	}, nil
}

func registerEmployees() {
	def, err := Employees()
	if err != nil {
		panic("employees seed: " + err.Error())
	}
	grid.Register(def)
}
