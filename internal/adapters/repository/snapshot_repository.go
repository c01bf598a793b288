package repository

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/ports"
)

// DirectoryRepository lists snapshot CSVs below a selected directory
type DirectoryRepository struct {
	root string
}

// NewDirectoryRepository creates a repository rooted at dir
func NewDirectoryRepository(dir string) *DirectoryRepository {
	return &DirectoryRepository{
		root: dir,
	}
}

// Ensure it implements the interface
var _ ports.SnapshotSource = (*DirectoryRepository)(nil)

// Root returns the selected directory
func (r *DirectoryRepository) Root() string {
	return r.root
}

// List walks the directory tree and returns every .csv file, sorted by relative path
func (r *DirectoryRepository) List(ctx context.Context) ([]domain.FileEntry, error) {
	root := r.root

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	var entries []domain.FileEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && domain.IsHiddenName(name) {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip editor swap files and partial downloads
		if domain.IsHiddenName(name) || !domain.IsCSVName(name) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		entries = append(entries, domain.FileEntry{
			Name:         name,
			RelativePath: filepath.ToSlash(rel),
			Path:         abs,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})

	return entries, nil
}

// Open opens a listed file for reading
func (r *DirectoryRepository) Open(ctx context.Context, entry domain.FileEntry) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := entry.Path
	if path == "" {
		path = filepath.Join(r.Root(), filepath.FromSlash(entry.RelativePath))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", entry.RelativePath, err)
	}
	return f, nil
}
