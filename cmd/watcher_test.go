package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testDebounce = 20 * time.Millisecond

// startWatcher runs a folder watcher on root and returns a channel that
// receives one value per debounced change
func startWatcher(t *testing.T, root string) <-chan struct{} {
	t.Helper()

	w, err := newFolderWatcher(root, testDebounce)
	if err != nil {
		t.Fatalf("newFolderWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func() { changes <- struct{}{} })
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return changes
}

func expectChange(t *testing.T, changes <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatalf("Expected a change after %s", what)
	}
}

func expectNoChange(t *testing.T, changes <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-changes:
		t.Fatalf("Unexpected change after %s", what)
	case <-time.After(10 * testDebounce):
	}
}

func writeCSV(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("PAPER_CODE,WIDTH,STATUS\nKL125,2100,Saldo\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFolderWatcher_CSVCreated(t *testing.T) {
	root := t.TempDir()
	changes := startWatcher(t, root)

	writeCSV(t, filepath.Join(root, "20250910-080000.csv"))
	expectChange(t, changes, "creating a CSV")
}

func TestFolderWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	changes := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "notas.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	writeCSV(t, filepath.Join(root, "~$20250910-080000.csv"))
	if err := os.Mkdir(filepath.Join(root, "vacia"), 0755); err != nil {
		t.Fatal(err)
	}

	expectNoChange(t, changes, "writing non-CSV, lock files and an empty folder")
}

func TestFolderWatcher_FolderMovedIn(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "septiembre")
	if err := os.Mkdir(outside, 0755); err != nil {
		t.Fatal(err)
	}
	writeCSV(t, filepath.Join(outside, "20250910-080000.csv"))

	changes := startWatcher(t, root)

	moved := filepath.Join(root, "septiembre")
	if err := os.Rename(outside, moved); err != nil {
		t.Fatal(err)
	}
	expectChange(t, changes, "moving a folder holding a CSV into the root")

	// The moved folder is watched from now on
	writeCSV(t, filepath.Join(moved, "20250911-080000.csv"))
	expectChange(t, changes, "creating a CSV in the moved folder")
}

func TestFolderWatcher_FolderRemoved(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "septiembre")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeCSV(t, filepath.Join(sub, "20250910-080000.csv"))

	changes := startWatcher(t, root)

	if err := os.RemoveAll(sub); err != nil {
		t.Fatal(err)
	}
	expectChange(t, changes, "removing a folder")
}

func TestFolderWatcher_FolderRenamed(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "septiembre")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeCSV(t, filepath.Join(sub, "20250910-080000.csv"))

	changes := startWatcher(t, root)

	if err := os.Rename(sub, filepath.Join(root, "sept")); err != nil {
		t.Fatal(err)
	}
	expectChange(t, changes, "renaming a folder")
}

func TestFolderWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()

	w, err := newFolderWatcher(root, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("newFolderWatcher failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{}, 16)
	go w.Run(ctx, func() { changes <- struct{}{} })

	writeCSV(t, filepath.Join(root, "20250910-080000.csv"))
	writeCSV(t, filepath.Join(root, "20250910-090000.csv"))
	writeCSV(t, filepath.Join(root, "20250910-100000.csv"))

	expectChange(t, changes, "a burst of CSV writes")
	select {
	case <-changes:
		t.Error("Expected one change for the whole burst")
	case <-time.After(400 * time.Millisecond):
	}
}
