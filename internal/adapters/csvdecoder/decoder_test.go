package csvdecoder

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/kamal-hamza/bobina/internal/core/domain"
)

const sample = "ROLL_ID,PAPER_CODE,WIDTH,ESTADO,COMPLETA,LOCATION,DEPO\n" +
	"R1,KL125,2100,Stock,Saldo,A1,Planta SFM\n" +
	"R2,KL125,,Stock,Completa,,Planta SFM\n"

func TestDecode_PositionalRows(t *testing.T) {
	dec := New(Options{InferTypes: true})

	table, err := dec.Decode(context.Background(), strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if len(table.Columns) != 7 || table.Columns[0] != "ROLL_ID" {
		t.Errorf("unexpected columns %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	records := domain.Normalize(table)
	if records[0]["WIDTH"] != 2100.0 {
		t.Errorf("WIDTH should be inferred as a number, got %#v", records[0]["WIDTH"])
	}
	if records[1]["WIDTH"] != nil || records[1]["LOCATION"] != nil {
		t.Errorf("blank cells should be nil: %#v", records[1])
	}
	if records[0]["COMPLETA"] != "Saldo" {
		t.Errorf("COMPLETA = %#v", records[0]["COMPLETA"])
	}
}

func TestDecode_WithoutTypeInference(t *testing.T) {
	dec := New(Options{})

	table, err := dec.Decode(context.Background(), strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	records := domain.Normalize(table)
	if records[0]["WIDTH"] != "2100" {
		t.Errorf("WIDTH should stay text, got %#v", records[0]["WIDTH"])
	}
}

func TestDecode_StripsBOMAndTrimsHeader(t *testing.T) {
	input := "\xEF\xBB\xBF ROLL_ID , DEPO\nR1,Planta SFM\n"

	table, err := New(Options{}).Decode(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	expected := []string{"ROLL_ID", "DEPO"}
	if !reflect.DeepEqual(table.Columns, expected) {
		t.Errorf("columns = %q, want %q", table.Columns, expected)
	}
}

func TestDecode_Windows1252Fallback(t *testing.T) {
	utf := "PAPER_CODE,DEPO\nCartón,Planta SFM\n"
	legacy, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf))
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	table, err := New(Options{}).Decode(context.Background(), bytes.NewReader(legacy))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	records := domain.Normalize(table)
	if records[0]["PAPER_CODE"] != "Cartón" {
		t.Errorf("PAPER_CODE = %q", records[0]["PAPER_CODE"])
	}
}

func TestDecode_Semicolon(t *testing.T) {
	input := "ROLL_ID;WIDTH\nR1;1930\n"

	table, err := New(Options{Delimiter: ';', InferTypes: true}).Decode(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	records := domain.Normalize(table)
	if records[0]["WIDTH"] != 1930.0 {
		t.Errorf("WIDTH = %#v", records[0]["WIDTH"])
	}
}

func TestDecode_ShortAndBlankLines(t *testing.T) {
	input := "A,B,C\n1,2\n,,\nx,y,z,extra\n"

	table, err := New(Options{}).Decode(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	records := domain.Normalize(table)
	if records[0]["C"] != nil {
		t.Errorf("missing trailing cell should be nil, got %#v", records[0]["C"])
	}
	if records[1]["C"] != "z" {
		t.Errorf("extra cells should be ignored, got %#v", records[1])
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := New(Options{}).Decode(context.Background(), strings.NewReader(""))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2100", true},
		{"-3.5", true},
		{"1e3", true},
		{"Inf", false},
		{"NaN", false},
		{"0x10", false},
		{"12a", false},
	}

	for _, tt := range tests {
		if _, ok := parseNumber(tt.input); ok != tt.ok {
			t.Errorf("parseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
	}
}
