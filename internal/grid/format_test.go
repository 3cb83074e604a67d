package grid

import "testing"

func TestFormatValue(t *testing.T) {
	text := ColumnDef{Key: "name", Type: FieldText}
	email := ColumnDef{Key: "email", Type: FieldEmail}
	num := ColumnDef{Key: "age", Type: FieldNumber}
	money := ColumnDef{Key: "salary", Type: FieldNumber, Currency: true}
	date := ColumnDef{Key: "hireDate", Type: FieldDate}

	tests := []struct {
		name  string
		col   ColumnDef
		value any
		want  string
	}{
		{"nil", text, nil, EmptyPlaceholder},
		{"empty string", text, "", EmptyPlaceholder},
		{"text verbatim", text, "Ann", "Ann"},
		{"email verbatim", email, "ann@example.com", "ann@example.com"},
		{"small number", num, 32.0, "32"},
		{"thousands", num, 1234567.0, "1,234,567"},
		{"decimals", num, 1234.5, "1,234.5"},
		{"rounded to three decimals", num, 1.23456, "1.235"},
		{"negative", num, -9876.0, "-9,876"},
		{"zero is a value", num, 0.0, "0"},
		{"currency", money, 75000.0, "$75,000"},
		{"negative currency", money, -1200.0, "-$1,200"},
		{"number text leftover", num, "n/a", "n/a"},
		{"date", date, "2020-01-15", "1/15/2020"},
		{"unparseable date verbatim", date, "someday", "someday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.col, tt.value); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
