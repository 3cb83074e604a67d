package tables

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

type seedFile struct {
	Rows []map[string]any `yaml:"rows"`
}

// ParseSeed decodes YAML seed rows and converts each field to the storage
// type of its column. Keys without a column are dropped.
func ParseSeed(data []byte, cols []grid.ColumnDef) ([]grid.Row, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	byKey := make(map[string]grid.ColumnDef, len(cols))
	for _, c := range cols {
		byKey[c.Key] = c
	}

	rows := make([]grid.Row, 0, len(f.Rows))
	seen := make(map[string]bool, len(f.Rows))
	for i, raw := range f.Rows {
		id := seedString(raw["id"])
		if id == "" {
			return nil, fmt.Errorf("seed row %d: missing id", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("seed row %d: duplicate id %q", i+1, id)
		}
		seen[id] = true

		fields := make(map[string]any, len(raw))
		for key, v := range raw {
			col, ok := byKey[key]
			if !ok || v == nil {
				continue
			}
			converted, err := seedValue(col, v)
			if err != nil {
				return nil, fmt.Errorf("seed row %s: %w", id, err)
			}
			fields[key] = converted
		}
		rows = append(rows, grid.Row{ID: id, Fields: fields})
	}
	return rows, nil
}

func seedValue(col grid.ColumnDef, v any) (any, error) {
	switch col.Type {
	case grid.FieldNumber:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case float64:
			return n, nil
		case string:
			if f, ok := grid.ParseNumber(n); ok {
				return f, nil
			}
		}
		return nil, fmt.Errorf("%s: not a number: %v", col.Key, v)
	case grid.FieldDate:
		if t, ok := v.(time.Time); ok {
			return t.Format(grid.ISODate), nil
		}
		if d, ok := grid.NormalizeDate(seedString(v)); ok {
			return d, nil
		}
		return nil, fmt.Errorf("%s: not a date: %v", col.Key, v)
	}
	return seedString(v), nil
}

func seedString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	}
	return fmt.Sprint(v)
}
