package csvdecoder

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/ports"
)

// ErrEmpty is returned for a file without a header row
var ErrEmpty = errors.New("csv file is empty")

// Supported values for Options.Encoding
const (
	EncodingAuto        = "auto"
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "latin1"
)

// Options controls how raw bytes become a table
type Options struct {
	Delimiter  rune   // Field separator, ',' when zero
	Encoding   string // One of the Encoding* values; auto falls back to windows-1252 for invalid UTF-8
	InferTypes bool   // Numeric cells become float64
}

// Decoder reads snapshot exports with encoding/csv
type Decoder struct {
	opts Options
}

// New creates a decoder with the given options
func New(opts Options) *Decoder {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Encoding == "" {
		opts.Encoding = EncodingAuto
	}
	return &Decoder{opts: opts}
}

// Ensure it implements the interface
var _ ports.TableDecoder = (*Decoder)(nil)

// Decode reads the header row and every data row. Cells are positional;
// blank cells decode to nil. Unreadable lines are logged and skipped.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*domain.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := d.toUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode csv text: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = d.opts.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := &domain.Table{Columns: columns}

	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: csv line %d unreadable (skipped): %v", line, err)
			continue
		}
		if isBlankRecord(rec) {
			continue
		}

		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = d.cellValue(cell)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// toUTF8 strips a byte order mark and converts legacy encodings
func (d *Decoder) toUTF8(raw []byte) ([]byte, error) {
	var enc encoding.Encoding

	switch strings.ToLower(d.opts.Encoding) {
	case EncodingUTF8:
		enc = unicode.UTF8BOM
	case EncodingWindows1252:
		enc = charmap.Windows1252
	case EncodingLatin1:
		enc = charmap.ISO8859_1
	default:
		if utf8.Valid(raw) {
			enc = unicode.UTF8BOM
		} else {
			enc = charmap.Windows1252
		}
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Decoder) cellValue(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if d.opts.InferTypes {
		if f, ok := parseNumber(trimmed); ok {
			return f
		}
	}
	return cell
}

func parseNumber(s string) (float64, bool) {
	// Only plain decimal notation; ParseFloat also accepts hex, Inf and NaN
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' && c != 'e' && c != 'E' {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
