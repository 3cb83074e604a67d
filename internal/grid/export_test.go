package grid

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func TestExportCSV_LabelsAndMissingValues(t *testing.T) {
	cols := []ColumnDef{
		{Key: "name", Label: "Name", Type: FieldText},
		{Key: "age", Label: "Age", Type: FieldNumber},
	}
	rows := []Row{
		row("1", map[string]any{"name": "A", "age": 1.0}),
		row("2", map[string]any{"name": "B", "age": nil}),
	}

	data, err := ExportCSV(rows, cols)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	want := "Name,Age\nA,1\nB,\n"
	if got := string(data); got != want {
		t.Errorf("ExportCSV = %q, want %q", got, want)
	}
	if strings.Contains(string(data), "null") {
		t.Error("export contains literal null")
	}
}

func TestExportCSV_ColumnOrderAndEscaping(t *testing.T) {
	cols := []ColumnDef{
		{Key: "notes", Label: "Notes, extra", Type: FieldText},
		{Key: "name", Label: "Name", Type: FieldText},
	}
	rows := []Row{
		row("1", map[string]any{"name": "Ann", "notes": "says \"hi\"\nthen leaves", "email": "hidden@x.co"}),
	}

	data, err := ExportCSV(rows, cols)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0][0] != "Notes, extra" || records[0][1] != "Name" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "says \"hi\"\nthen leaves" || records[1][1] != "Ann" {
		t.Errorf("row = %v", records[1])
	}
	if len(records[1]) != 2 {
		t.Errorf("hidden column exported: %v", records[1])
	}
}

func TestExportCSV_NoRows(t *testing.T) {
	data, err := ExportCSV(nil, []ColumnDef{{Key: "name", Label: "Name"}})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if got := string(data); got != "Name\n" {
		t.Errorf("ExportCSV = %q, want header only", got)
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
	if got, want := ExportFileName(now), "table_export_2024-03-07.csv"; got != want {
		t.Errorf("ExportFileName = %q, want %q", got, want)
	}
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf, testImportFields()); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	if got, want := buf.String(), "name,email,age,salary,hireDate\n"; got != want {
		t.Errorf("template = %q, want %q", got, want)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	g := newTestGrid()
	g.SetVisibleColumns([]string{"name", "email", "age", "salary", "hireDate"})

	in := "name,email,age,salary,hireDate\nAnn,ann@example.com,30,85000,2020-01-15\n"
	if _, err := g.ImportCSV(strings.NewReader(in)); err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}

	data, err := g.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := "Name,Email,Age,Salary,Hire Date\nAnn,ann@example.com,30,85000,2020-01-15\n"
	if got := string(data); got != want {
		t.Errorf("Export = %q, want %q", got, want)
	}
}
