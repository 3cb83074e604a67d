package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), append([]string{"gridctl"}, args...))
	return out.String(), err
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// ============================================================================
// import
// ============================================================================

func TestImportCommand(t *testing.T) {
	in := writeCSV(t, "name,email,age\nZed,zed@example.com,40\n,x@example.com,20\n")
	accepted := filepath.Join(t.TempDir(), "accepted.csv")

	out, err := runApp(t, "import", "--table", "employees", "--file", in, "--out", accepted)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if want := "Imported 1 rows\nRow 3: Name is required\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	data, err := os.ReadFile(accepted)
	if err != nil {
		t.Fatal(err)
	}
	want := "Name,Email,Age,Role,Department,Location,Salary,Hire Date\nZed,zed@example.com,40,,,,,\n"
	if string(data) != want {
		t.Errorf("accepted = %q, want %q", data, want)
	}
}

func TestImportCommand_JSON(t *testing.T) {
	in := writeCSV(t, "name,email\nA,not-an-email\n")

	out, err := runApp(t, "import", "--file", in, "--json")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, want := range []string{`"acceptedCount": 0`, `"row": 2`, `"error": "Invalid email format"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestImportCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file flag", []string{"import"}},
		{"file not found", []string{"import", "--file", filepath.Join(t.TempDir(), "nope.csv")}},
		{"empty file", []string{"import", "--file", writeCSV(t, "")}},
		{"unknown table", []string{"import", "--table", "nope", "--file", writeCSV(t, "name\nA\n")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := runApp(t, "import", "--table", "nope", "--file", writeCSV(t, "name\nA\n"))
	if !errors.Is(err, grid.ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", err)
	}
}

// ============================================================================
// export and view
// ============================================================================

func TestExportCommand(t *testing.T) {
	out, err := runApp(t, "export", "--columns", "name,age", "--search", "john", "--sort", "age:desc")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if want := "Name,Age\nBob Johnson,35\nJohn Doe,30\n"; out != want {
		t.Errorf("export = %q, want %q", out, want)
	}
}

func TestExportCommand_FromFile(t *testing.T) {
	in := writeCSV(t, "name,email,age\nZed,zed@example.com,40\nAmy,amy@example.com,22\n")
	dest := filepath.Join(t.TempDir(), "out.csv")

	if _, err := runApp(t, "export", "--in", in, "--columns", "name", "--sort", "name", "--out", dest); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Name\nAmy\nZed\n"; string(data) != want {
		t.Errorf("export = %q, want %q", data, want)
	}
}

func TestViewCommand(t *testing.T) {
	// --page is zero-based: page 2 holds the last five of fifteen names.
	out, err := runApp(t, "view", "--columns", "name,age", "--sort", "name", "--page-size", "5", "--page", "2")
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Name") || !strings.HasPrefix(lines[1], "Jane Smith") || !strings.HasPrefix(lines[5], "Mia Clark") {
		t.Errorf("unexpected rows:\n%s", out)
	}
	if lines[6] != "Page 3 of 3" {
		t.Errorf("footer = %q, want %q", lines[6], "Page 3 of 3")
	}
}

func TestViewCommand_Search(t *testing.T) {
	out, err := runApp(t, "view", "--columns", "name", "--search", "  ma  ")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	// The term is matched untrimmed, so "  ma  " finds nothing.
	if !strings.Contains(out, "Found 0 results") {
		t.Errorf("output:\n%s", out)
	}
}

func TestTablesCommand(t *testing.T) {
	out, err := runApp(t, "tables")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "employees\tEmployees") {
		t.Errorf("tables = %q", out)
	}
}
