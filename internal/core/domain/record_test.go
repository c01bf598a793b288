package domain

import (
	"reflect"
	"testing"
)

func TestNormalize_PositionalRows(t *testing.T) {
	table := &Table{
		Columns: []string{"ROLL_ID", "PAPER_CODE", "WIDTH"},
		Rows: []any{
			[]any{"R1", "KL", 2100.0},
			[]any{"R2", "TL"},
			[]string{"R3", "MD", "1930"},
		},
	}

	got := Normalize(table)

	expected := []RawRecord{
		{"ROLL_ID": "R1", "PAPER_CODE": "KL", "WIDTH": 2100.0},
		{"ROLL_ID": "R2", "PAPER_CODE": "TL", "WIDTH": nil},
		{"ROLL_ID": "R3", "PAPER_CODE": "MD", "WIDTH": "1930"},
	}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Normalize() = %#v\nwant %#v", got, expected)
	}
}

func TestNormalize_KeyedRowsPassThrough(t *testing.T) {
	keyed := RawRecord{"ROLL_ID": "R1", "EXTRA": "x"}
	plain := map[string]any{"ROLL_ID": "R2"}
	table := &Table{Columns: []string{"ROLL_ID"}, Rows: []any{keyed, plain}}

	got := Normalize(table)

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], keyed) {
		t.Errorf("keyed row changed: %#v", got[0])
	}
	if got[1]["ROLL_ID"] != "R2" {
		t.Errorf("plain map row changed: %#v", got[1])
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	row := []any{"R1"}
	table := &Table{Columns: []string{"ROLL_ID", "WIDTH"}, Rows: []any{row}}

	_ = Normalize(table)

	if len(table.Rows) != 1 || len(row) != 1 || row[0] != "R1" {
		t.Errorf("input was mutated: %#v", table.Rows)
	}
	if len(table.Columns) != 2 {
		t.Errorf("columns were mutated: %#v", table.Columns)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	columns := []string{"PAPER_CODE", "WIDTH"}
	table := &Table{
		Columns: columns,
		Rows:    []any{[]any{"KL", "2100"}, []any{nil, 1930.0}, []any{"TL"}},
	}

	once := Normalize(table)
	twice := Normalize(RecordsTable(columns, once))

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize is not idempotent:\n%#v\n%#v", once, twice)
	}
}

func TestNormalize_Nil(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("expected no records, got %v", got)
	}
}

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{"  Planta SFM ", "PLANTA SFM"},
		{"saldo", "SALDO"},
		{2100.0, ""},
		{nil, ""},
		{true, ""},
	}

	for _, tt := range tests {
		if got := NormalizeString(tt.value); got != tt.expected {
			t.Errorf("NormalizeString(%#v) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{nil, ""},
		{"KL", "KL"},
		{2100.0, "2100"},
		{1930.5, "1930.5"},
		{42, "42"},
		{false, "false"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.value); got != tt.expected {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}
