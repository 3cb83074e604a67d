package grid

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// ExportFileName returns the download name for an export taken at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("table_export_%s.csv", now.Format(ISODate))
}

// WriteCSV writes rows as CSV limited to cols, in cols order. The header row
// holds column labels; missing values are written as empty fields.
func WriteCSV(w io.Writer, rows []Row, cols []ColumnDef) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			v, _ := r.Get(c.Key)
			record[i] = valueString(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportCSV returns rows serialized with WriteCSV.
func ExportCSV(rows []Row, cols []ColumnDef) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, cols); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTemplate writes a header-only CSV naming the import fields.
func WriteTemplate(w io.Writer, fields []ImportField) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
