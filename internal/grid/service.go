package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/datagrid/internal/logging"
)

// VisibleColumnsKey is the preference key holding a table's visible columns
// as a JSON array of column keys.
const VisibleColumnsKey = "visibleColumns"

// DefaultMaxFileSize is the import size limit when none is configured (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// PrefsTimeout bounds a single preference read or write.
var PrefsTimeout = 5 * time.Second

// PreferenceStore is a key-value store for per-table user preferences.
// Namespaces are table keys.
type PreferenceStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
}

// ServiceConfig holds settings shared by every hosted grid.
type ServiceConfig struct {
	PageSize             int
	StrictDates          bool
	MaxFileSize          int64
	MaxConcurrentImports int
	MaxImportWait        time.Duration
}

// Service hosts one Grid per table and serializes access to each, so every
// operation on a table runs to completion before the next starts.
type Service struct {
	cfg     ServiceConfig
	prefs   PreferenceStore
	limiter *ImportLimiter

	tables map[string]*hostedTable
	keys   []string
}

type hostedTable struct {
	mu   sync.Mutex
	grid *Grid
}

// NewService creates a grid for every definition. Saved column visibility is
// restored from prefs, which may be nil.
func NewService(ctx context.Context, defs []TableDefinition, prefs PreferenceStore, cfg ServiceConfig) (*Service, error) {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}

	s := &Service{
		cfg:     cfg,
		prefs:   prefs,
		limiter: NewImportLimiter(cfg.MaxConcurrentImports, cfg.MaxImportWait),
		tables:  make(map[string]*hostedTable, len(defs)),
	}

	for _, def := range defs {
		g, err := NewGrid(def, GridConfig{PageSize: cfg.PageSize, StrictDates: cfg.StrictDates})
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", def.Info.Key, err)
		}

		if keys, ok := s.loadVisible(ctx, def.Info.Key); ok {
			g.columns.SetVisibleColumns(keys)
		}
		g.onVisibleChange = s.persistVisible(def.Info.Key)

		s.tables[def.Info.Key] = &hostedTable{grid: g}
		s.keys = append(s.keys, def.Info.Key)
	}

	return s, nil
}

// Tables returns the hosted tables in registration order.
func (s *Service) Tables() []TableInfo {
	out := make([]TableInfo, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.tables[k].grid.Info())
	}
	return out
}

// HasTable reports whether key is hosted.
func (s *Service) HasTable(key string) bool {
	_, ok := s.tables[key]
	return ok
}

// Update runs fn with exclusive access to the table's grid.
func (s *Service) Update(key string, fn func(g *Grid) error) error {
	t, ok := s.tables[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.grid)
}

// View returns the current display snapshot of a table.
func (s *Service) View(key string) (View, error) {
	var v View
	err := s.Update(key, func(g *Grid) error {
		v = g.View()
		return nil
	})
	return v, err
}

// Export returns the table's CSV export and its download name.
func (s *Service) Export(key string) ([]byte, string, error) {
	var data []byte
	err := s.Update(key, func(g *Grid) error {
		var err error
		data, err = g.Export()
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return data, ExportFileName(time.Now()), nil
}

// Template writes a header-only CSV for the table's import fields.
func (s *Service) Template(key string, w io.Writer) error {
	t, ok := s.tables[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}
	return WriteTemplate(w, t.grid.Importer().Fields)
}

// Import validates a CSV source and applies the result to the table.
//
// The source is checked and parsed without holding the table, so a large
// file never blocks other operations; only applying the result does.
// Structural failures are recorded on the grid as a synthetic error and
// returned.
func (s *Service) Import(ctx context.Context, key, fileName, contentType string, r io.Reader) (ImportResult, error) {
	t, ok := s.tables[key]
	if !ok {
		return ImportResult{}, fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}

	if !IsCSVSource(fileName, contentType) {
		return ImportResult{}, ErrNotCSV
	}

	log := logging.WithFields(ctx, "table", key, "file", fileName)
	start := time.Now()

	if err := s.limiter.Acquire(ctx); err != nil {
		log.Warn("import rejected", "error", err)
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxFileSize+1))
	if err != nil {
		return ImportResult{}, fmt.Errorf("read %s: %w", fileName, err)
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return ImportResult{}, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.cfg.MaxFileSize)
	}

	result, importErr := t.grid.Importer().Import(bytes.NewReader(data))

	t.mu.Lock()
	if importErr != nil {
		result = t.grid.RecordImportFailure(importErr)
	} else {
		t.grid.ApplyImport(result)
	}
	t.mu.Unlock()

	if importErr != nil {
		log.Warn("import failed", "error", importErr, "duration_ms", time.Since(start).Milliseconds())
		return result, importErr
	}

	log.Info("import completed",
		"accepted", result.AcceptedCount,
		"rejected", len(result.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// ImportLimiter exposes the limiter for status reporting and shutdown.
func (s *Service) ImportLimiter() *ImportLimiter {
	return s.limiter
}

// IsCSVSource reports whether a file looks like CSV by extension or MIME type.
func IsCSVSource(fileName, contentType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/csv"
}

func (s *Service) loadVisible(ctx context.Context, table string) ([]string, bool) {
	if s.prefs == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, PrefsTimeout)
	defer cancel()

	raw, ok, err := s.prefs.Get(ctx, table, VisibleColumnsKey)
	if err != nil {
		slog.Warn("load visible columns", "table", table, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		slog.Warn("decode visible columns", "table", table, "error", err)
		return nil, false
	}
	return keys, true
}

// persistVisible returns the hook that writes a table's visible columns.
// Write failures are logged; the in-memory state stays authoritative.
func (s *Service) persistVisible(table string) func([]string) {
	return func(keys []string) {
		if s.prefs == nil {
			return
		}
		if keys == nil {
			keys = []string{}
		}
		raw, err := json.Marshal(keys)
		if err != nil {
			slog.Error("encode visible columns", "table", table, "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), PrefsTimeout)
		defer cancel()

		if err := s.prefs.Set(ctx, table, VisibleColumnsKey, raw); err != nil {
			slog.Error("save visible columns", "table", table, "error", err)
		}
	}
}
