package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/bobina/internal/core/domain"
)

// SnapshotSource defines the port for listing and reading snapshot files
type SnapshotSource interface {
	// List returns every CSV file in the selected directory
	List(ctx context.Context) ([]domain.FileEntry, error)

	// Open returns the raw bytes of one listed file
	Open(ctx context.Context, entry domain.FileEntry) (io.ReadCloser, error)
}

// TableDecoder defines the port for turning raw CSV bytes into tabular form
type TableDecoder interface {
	// Decode reads a header row and the data rows that follow it
	Decode(ctx context.Context, r io.Reader) (*domain.Table, error)
}

// ChartRenderer defines the port for rendering the historical series
type ChartRenderer interface {
	// Render writes a self-contained chart document
	Render(w io.Writer, history *domain.History) error
}
