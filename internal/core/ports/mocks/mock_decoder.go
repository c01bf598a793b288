package mocks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kamal-hamza/bobina/internal/core/domain"
)

// MockTableDecoder splits lines on commas without quoting rules.
// Empty cells decode to nil; a body starting with "!" fails to decode.
type MockTableDecoder struct{}

// NewMockTableDecoder creates a mock decoder
func NewMockTableDecoder() *MockTableDecoder {
	return &MockTableDecoder{}
}

// Decode parses a simple comma separated document
func (d *MockTableDecoder) Decode(ctx context.Context, r io.Reader) (*domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "!") {
		return nil, fmt.Errorf("malformed csv")
	}
	if text == "" {
		return &domain.Table{}, nil
	}

	lines := strings.Split(text, "\n")
	table := &domain.Table{Columns: strings.Split(strings.TrimSpace(lines[0]), ",")}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := strings.Split(line, ",")
		row := make([]any, len(cells))
		for i, c := range cells {
			if c == "" {
				row[i] = nil
			} else {
				row[i] = c
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
