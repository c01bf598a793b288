package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRecord maps a column name to a scalar cell value.
// Values are string, float64 (or another numeric type), bool or nil.
type RawRecord map[string]any

// Table is decoded tabular content handed to the normalizer.
// Each row is either keyed (RawRecord, map[string]any) or positional ([]any, []string).
type Table struct {
	Columns []string
	Rows    []any
}

// HasColumn reports whether the table declares the given column
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Normalize converts a table into keyed records.
// Keyed rows pass through as the same mapping; positional rows are zipped
// against the column list and missing positions become nil. The input is
// never modified and row order is preserved.
func Normalize(table *Table) []RawRecord {
	if table == nil {
		return []RawRecord{}
	}

	records := make([]RawRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, normalizeRow(table.Columns, row))
	}
	return records
}

func normalizeRow(columns []string, row any) RawRecord {
	switch r := row.(type) {
	case RawRecord:
		return r
	case map[string]any:
		return RawRecord(r)
	case []any:
		record := make(RawRecord, len(columns))
		for i, column := range columns {
			if i < len(r) {
				record[column] = r[i]
			} else {
				record[column] = nil
			}
		}
		return record
	case []string:
		record := make(RawRecord, len(columns))
		for i, column := range columns {
			if i < len(r) {
				record[column] = r[i]
			} else {
				record[column] = nil
			}
		}
		return record
	default:
		// Unknown shapes carry no positional data
		record := make(RawRecord, len(columns))
		for _, column := range columns {
			record[column] = nil
		}
		return record
	}
}

// RecordsTable wraps already keyed records as a table, e.g. to feed them back through Normalize
func RecordsTable(columns []string, records []RawRecord) *Table {
	rows := make([]any, len(records))
	for i, r := range records {
		rows[i] = r
	}
	return &Table{Columns: columns, Rows: rows}
}

// NormalizeString trims and upper-cases string values.
// Anything that is not a string compares as "".
func NormalizeString(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// Stringify renders a cell for keys and display; nil becomes ""
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
