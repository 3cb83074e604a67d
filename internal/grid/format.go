package grid

import (
	"strconv"
	"strings"
)

// EmptyPlaceholder is shown for missing values.
const EmptyPlaceholder = "—"

// FormatValue renders a stored value for display by the column's declared type.
func FormatValue(col ColumnDef, v any) string {
	if v == nil {
		return EmptyPlaceholder
	}
	if s, ok := v.(string); ok && s == "" {
		return EmptyPlaceholder
	}

	switch col.Type {
	case FieldNumber:
		f, ok := asFloat(v)
		if !ok {
			return valueString(v)
		}
		s := formatThousands(f)
		if col.Currency {
			if strings.HasPrefix(s, "-") {
				return "-$" + s[1:]
			}
			return "$" + s
		}
		return s
	case FieldDate:
		s := valueString(v)
		if t, ok := ParseDate(s); ok {
			return t.Format("1/2/2006")
		}
		return s
	}
	return valueString(v)
}

// formatThousands formats f with comma grouping and at most three decimals.
func formatThousands(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && len(frac) > 3 {
		s = strconv.FormatFloat(f, 'f', 3, 64)
		s = strings.TrimPrefix(s, "-")
		intPart, frac, _ = strings.Cut(s, ".")
		frac = strings.TrimRight(frac, "0")
		hasFrac = frac != ""
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
