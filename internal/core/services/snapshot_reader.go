package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/ports"
)

// snapshotData is one decoded and normalized snapshot
type snapshotData struct {
	Columns        []string
	Rows           []domain.RawRecord
	MissingColumns []string
}

// readSnapshot opens, decodes and normalizes a single file.
// Missing required columns are logged but do not fail the read.
func readSnapshot(ctx context.Context, source ports.SnapshotSource, decoder ports.TableDecoder, entry domain.FileEntry) (*snapshotData, error) {
	rc, err := source.Open(ctx, entry)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := decoder.Decode(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", entry.RelativePath, err)
	}

	missing := domain.MissingColumns(table.Columns)
	if len(missing) > 0 {
		log.Printf("WARN: %s is missing columns: %s", entry.RelativePath, strings.Join(missing, ", "))
	}

	return &snapshotData{
		Columns:        table.Columns,
		Rows:           domain.Normalize(table),
		MissingColumns: missing,
	}, nil
}
