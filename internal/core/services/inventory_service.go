package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/ports"
)

// ErrNoSnapshots is returned when the folder holds no usable snapshot
var ErrNoSnapshots = errors.New("no valid snapshot file found")

// InventoryService builds the available-roll inventory of the latest snapshot
type InventoryService struct {
	source  ports.SnapshotSource
	decoder ports.TableDecoder
}

// NewInventoryService creates a new inventory service
func NewInventoryService(source ports.SnapshotSource, decoder ports.TableDecoder) *InventoryService {
	return &InventoryService{
		source:  source,
		decoder: decoder,
	}
}

// InventoryRequest represents a request for the current inventory
type InventoryRequest struct {
	Entry         *domain.FileEntry // Explicit file (optional); the latest snapshot otherwise
	Search        string            // Paper code or width substring (optional)
	AllowFallback bool              // Use the first CSV when no name carries a timestamp
}

// InventoryResponse represents the inventory of one snapshot
type InventoryResponse struct {
	Snapshot       domain.FileEntry
	Meta           *domain.FileMeta // nil for a fallback file without a timestamp
	Items          []domain.InventoryItem
	Matches        []domain.InventoryItem
	Groups         []domain.PaperGroup
	Total          int // Rolls among Matches
	Rows           int
	Available      int
	MissingColumns []string
}

// Execute loads the selected snapshot and aggregates its available rolls
func (s *InventoryService) Execute(ctx context.Context, req InventoryRequest) (*InventoryResponse, error) {
	entry, meta, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := readSnapshot(ctx, s.source, s.decoder, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", entry.RelativePath, err)
	}

	available := domain.FilterAvailable(data.Rows)
	items := domain.AggregateInventory(available)
	domain.SortInventory(items)

	matches := domain.SearchInventory(items, req.Search)
	if matches == nil {
		matches = []domain.InventoryItem{}
	}

	return &InventoryResponse{
		Snapshot:       entry,
		Meta:           meta,
		Items:          items,
		Matches:        matches,
		Groups:         domain.GroupByPaperCode(matches),
		Total:          domain.SumRolls(matches),
		Rows:           len(data.Rows),
		Available:      len(available),
		MissingColumns: data.MissingColumns,
	}, nil
}

func (s *InventoryService) resolve(ctx context.Context, req InventoryRequest) (domain.FileEntry, *domain.FileMeta, error) {
	if req.Entry != nil {
		entry := *req.Entry
		if meta, ok := domain.ParseSnapshotName(entry.Name); ok {
			return entry, &meta, nil
		}
		return entry, nil, nil
	}

	entries, err := s.source.List(ctx)
	if err != nil {
		return domain.FileEntry{}, nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	entry, meta, ok := domain.LatestSnapshot(domain.FilterCSV(entries), req.AllowFallback)
	if !ok {
		return domain.FileEntry{}, nil, ErrNoSnapshots
	}
	return entry, meta, nil
}

// FileListing pairs a listed file with its parsed timestamp
type FileListing struct {
	Entry domain.FileEntry
	Meta  *domain.FileMeta // nil when the name is not a snapshot name
}

// FilesResponse represents every CSV in the folder
type FilesResponse struct {
	Files      []FileListing
	Recognised int
	Latest     *FileListing
}

// Files lists every CSV with its parsed timestamp and marks the latest one
func (s *InventoryService) Files(ctx context.Context) (*FilesResponse, error) {
	entries, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	resp := &FilesResponse{Files: []FileListing{}}
	for _, entry := range domain.FilterCSV(entries) {
		listing := FileListing{Entry: entry}
		if meta, ok := domain.ParseSnapshotName(entry.Name); ok {
			m := meta
			listing.Meta = &m
			resp.Recognised++
		}
		resp.Files = append(resp.Files, listing)
	}

	if latest, meta, ok := domain.LatestSnapshot(entries, false); ok {
		resp.Latest = &FileListing{Entry: latest, Meta: meta}
	}

	return resp, nil
}
