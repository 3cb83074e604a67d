// Package dropdir imports CSV files dropped into a directory.
//
// Each file is imported into one table. Files that import (even with
// rejected rows) move to Imported/; files that cannot be parsed move to
// Failed/. Files skipped because every import slot was busy are retried.
package dropdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// Destination directories, created inside the watched directory.
const (
	ImportedDir = "Imported"
	FailedDir   = "Failed"
)

// DefaultSettle is how long a file must go without writes before it is
// imported.
const DefaultSettle = 250 * time.Millisecond

// Importer imports one CSV source into a table. *grid.Service satisfies it.
type Importer interface {
	Import(ctx context.Context, key, fileName, contentType string, r io.Reader) (grid.ImportResult, error)
}

// Outcome describes what happened to one dropped file.
type Outcome struct {
	File    string
	Result  grid.ImportResult
	Err     error
	MovedTo string
}

// Watcher imports CSV files created in Dir into Table.
type Watcher struct {
	Dir    string
	Table  string
	Settle time.Duration

	// OnProcessed, when set, is called after each file is handled.
	OnProcessed func(Outcome)

	imp    Importer
	logger *slog.Logger
}

// New returns a watcher for dir. A nil logger uses slog.Default().
func New(dir, table string, imp Importer, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		Dir:    dir,
		Table:  table,
		Settle: DefaultSettle,
		imp:    imp,
		logger: logger.With(slog.String("component", "dropdir"), slog.String("dir", dir)),
	}
}

// Run imports the CSV files already present, then watches for new ones
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("dropdir: create %s: %w", w.Dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dropdir: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("dropdir: watch %s: %w", w.Dir, err)
	}

	w.logger.Info("watcher started", slog.String("table", w.Table))

	pending := make(map[string]time.Time)
	existing, err := w.scan()
	if err != nil {
		return err
	}
	for _, p := range existing {
		pending[p] = time.Time{}
	}

	settle := w.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !isCSV(ev.Name) {
				continue
			}
			if filepath.Dir(ev.Name) != filepath.Clean(w.Dir) {
				continue
			}
			pending[ev.Name] = time.Now()

		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				out := w.ProcessFile(ctx, path)
				if errors.Is(out.Err, grid.ErrTooManyImports) {
					pending[path] = now
					continue
				}
				delete(pending, path)
			}

		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", slog.String("error", werr.Error()))
		}
	}
}

// ProcessFile imports one file and moves it according to the outcome.
// Files that vanished, and imports refused for lack of a slot or because
// ctx ended, stay where they are.
func (w *Watcher) ProcessFile(ctx context.Context, path string) Outcome {
	name := filepath.Base(path)
	out := Outcome{File: name}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("open failed", slog.String("file", name), slog.String("error", err.Error()))
		}
		out.Err = err
		return out
	}
	out.Result, out.Err = w.imp.Import(ctx, w.Table, name, "text/csv", f)
	f.Close()

	if retryable(out.Err) {
		w.logger.Warn("import deferred", slog.String("file", name), slog.String("error", out.Err.Error()))
		return out
	}

	dest := ImportedDir
	if out.Err != nil {
		dest = FailedDir
	}
	moved, err := moveInto(path, filepath.Join(w.Dir, dest))
	if err != nil {
		w.logger.Error("move failed", slog.String("file", name), slog.String("error", err.Error()))
	}
	out.MovedTo = moved

	if out.Err != nil {
		w.logger.Warn("import failed",
			slog.String("file", name),
			slog.String("code", grid.MapError(out.Err).Code),
			slog.String("error", out.Err.Error()),
		)
	} else {
		w.logger.Info("file imported",
			slog.String("file", name),
			slog.Int("accepted", out.Result.AcceptedCount),
			slog.Int("rejected", len(out.Result.Errors)),
		)
	}

	if w.OnProcessed != nil {
		w.OnProcessed(out)
	}
	return out
}

func (w *Watcher) scan() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("dropdir: read %s: %w", w.Dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && isCSV(e.Name()) {
			paths = append(paths, filepath.Join(w.Dir, e.Name()))
		}
	}
	return paths, nil
}

func retryable(err error) bool {
	return errors.Is(err, grid.ErrTooManyImports) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// moveInto renames path into dir, suffixing the name with a timestamp when
// the destination already exists.
func moveInto(path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := filepath.Base(path)
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		dest = filepath.Join(dir, fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), time.Now().UnixNano(), ext))
	}
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}
