package dropdir

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(t *testing.T) *grid.Service {
	t.Helper()
	def := grid.TableDefinition{
		Info:    grid.TableInfo{Key: "people"},
		Columns: []grid.ColumnDef{{Key: "name", Label: "Name", Visible: true}},
		ImportFields: []grid.ImportField{
			{Key: "name", RequiredMessage: "Name is required"},
		},
	}
	svc, err := grid.NewService(context.Background(), []grid.TableDefinition{def}, nil, grid.ServiceConfig{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

// ============================================================================
// ProcessFile
// ============================================================================

func TestProcessFile(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantDir      string
		wantAccepted int
		wantErr      bool
	}{
		{"valid", "name\nAda\nGrace\n", ImportedDir, 2, false},
		{"rejected rows still imported", "name,extra\nAda,1\n,2\n", ImportedDir, 1, false},
		{"malformed", "name\n\"unterminated\n", FailedDir, 0, true},
		{"empty", "", FailedDir, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			w := New(dir, "people", testService(t), quietLogger())
			path := writeFile(t, dir, "in.csv", tt.body)

			out := w.ProcessFile(context.Background(), path)

			if (out.Err != nil) != tt.wantErr {
				t.Fatalf("Err = %v, wantErr %v", out.Err, tt.wantErr)
			}
			if out.Result.AcceptedCount != tt.wantAccepted {
				t.Errorf("AcceptedCount = %d, want %d", out.Result.AcceptedCount, tt.wantAccepted)
			}
			if exists(path) {
				t.Error("source file was not moved")
			}
			want := filepath.Join(dir, tt.wantDir, "in.csv")
			if out.MovedTo != want || !exists(want) {
				t.Errorf("MovedTo = %q, want %q", out.MovedTo, want)
			}
		})
	}
}

func TestProcessFile_NameCollision(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "people", testService(t), quietLogger())

	first := w.ProcessFile(context.Background(), writeFile(t, dir, "a.csv", "name\nAda\n"))
	second := w.ProcessFile(context.Background(), writeFile(t, dir, "a.csv", "name\nGrace\n"))

	if first.MovedTo == second.MovedTo {
		t.Fatalf("both files moved to %q", first.MovedTo)
	}
	if !exists(first.MovedTo) || !exists(second.MovedTo) {
		t.Error("moved file missing")
	}
}

type busyImporter struct{}

func (busyImporter) Import(context.Context, string, string, string, io.Reader) (grid.ImportResult, error) {
	return grid.ImportResult{}, grid.ErrTooManyImports
}

func TestProcessFile_BusyLeavesFile(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "people", busyImporter{}, quietLogger())
	path := writeFile(t, dir, "a.csv", "name\nAda\n")

	out := w.ProcessFile(context.Background(), path)

	if !errors.Is(out.Err, grid.ErrTooManyImports) {
		t.Errorf("Err = %v, want ErrTooManyImports", out.Err)
	}
	if !exists(path) {
		t.Error("file moved although the import was refused")
	}
}

func TestProcessFile_Missing(t *testing.T) {
	w := New(t.TempDir(), "people", testService(t), quietLogger())
	out := w.ProcessFile(context.Background(), filepath.Join(w.Dir, "gone.csv"))
	if !errors.Is(out.Err, os.ErrNotExist) {
		t.Errorf("Err = %v, want not exist", out.Err)
	}
}

// ============================================================================
// Run
// ============================================================================

func TestRun_ImportsExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	svc := testService(t)
	writeFile(t, dir, "existing.csv", "name\nAda\n")
	writeFile(t, dir, "notes.txt", "ignored")

	w := New(dir, "people", svc, quietLogger())
	w.Settle = 50 * time.Millisecond

	var mu sync.Mutex
	var seen []string
	w.OnProcessed = func(o Outcome) {
		mu.Lock()
		seen = append(seen, o.File)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return exists(filepath.Join(dir, ImportedDir, "existing.csv"))
	}, "existing file not imported")

	writeFile(t, dir, "new.csv", "name\nGrace\nLinus\n")

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return exists(filepath.Join(dir, ImportedDir, "new.csv"))
	}, "new file not imported")

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v", err)
	}

	v, _ := svc.View("people")
	if v.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", v.TotalRows)
	}
	if !exists(filepath.Join(dir, "notes.txt")) {
		t.Error("non-CSV file was touched")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Errorf("processed = %v, want 2 files", seen)
	}
}
