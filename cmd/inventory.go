package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var (
	inventorySearch string
	inventoryAll    bool
	inventoryPick   bool
	inventoryCopy   bool
	inventoryJSON   bool
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory [search]",
	Aliases: []string{"inv", "ls"},
	Short:   "Show available rolls of the latest snapshot (alias: inv)",
	Long: `Show the available rolls of the newest snapshot in the folder.

Only rolls in stock at PLANTA SFM with status SALDO are counted; ULOG and
DPBQ locations are excluded. Rolls are grouped by PAPER_CODE and WIDTH.

Preferred widths (1930, 2100, 2250, 2350, 2450) are listed first; other
widths are collapsed unless --all is given.

Examples:
  bobina inventory
  bobina inventory KL125
  bobina inventory --search 2100 --all
  bobina inventory --pick --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInventory,
}

func init() {
	inventoryCmd.Flags().StringVarP(&inventorySearch, "search", "s", "", "Filter by PAPER_CODE or WIDTH")
	inventoryCmd.Flags().BoolVarP(&inventoryAll, "all", "a", false, "Show every width, not only the preferred ones")
	inventoryCmd.Flags().BoolVarP(&inventoryPick, "pick", "p", false, "Choose the snapshot interactively")
	inventoryCmd.Flags().BoolVarP(&inventoryCopy, "copy", "c", false, "Copy the table to the clipboard as TSV")
	inventoryCmd.Flags().BoolVar(&inventoryJSON, "json", false, "Print the inventory as JSON")
}

func runInventory(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	search := inventorySearch
	if len(args) == 1 {
		search = args[0]
	}
	showAll := inventoryAll || appConfig.ShowAllWidths

	req := services.InventoryRequest{
		Search:        search,
		AllowFallback: appConfig.LiveFallback,
	}

	if inventoryPick {
		entry, err := pickSnapshot()
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		req.Entry = entry
	}

	resp, err := inventoryService.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, services.ErrNoSnapshots) {
			fmt.Println(ui.FormatWarning(labels.NoSnapshot))
			return nil
		}
		fmt.Println(ui.FormatError(labels.LoadFailed))
		return err
	}

	if inventoryJSON {
		return writeJSON(os.Stdout, newInventoryDoc(resp))
	}

	printInventory(os.Stdout, resp, search, showAll)

	if inventoryCopy {
		if err := clipboard.WriteAll(inventoryTable(resp, true).TSV()); err != nil {
			fmt.Println(ui.FormatWarning(labels.WithError(labels.CopyFailed, err)))
		} else {
			fmt.Println(ui.FormatSuccess(labels.Copied))
		}
	}

	return nil
}

// pickSnapshot lets the user choose one CSV of the folder. A nil entry means
// the picker was cancelled.
func pickSnapshot() (*domain.FileEntry, error) {
	files, err := inventoryService.Files(getContext())
	if err != nil {
		return nil, err
	}
	if len(files.Files) == 0 {
		fmt.Println(ui.FormatWarning(labels.NoSnapshot))
		return nil, nil
	}

	listing := pickOrder(files.Files)

	idx, err := fuzzyfinder.Find(
		listing,
		func(i int) string { return listing[i].Entry.RelativePath },
		fuzzyfinder.WithPromptString(labels.PickPrompt),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return describeListing(listing[i])
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run picker: %w", err)
	}

	entry := listing[idx].Entry
	return &entry, nil
}

// pickOrder lists timestamped files newest first, then unrecognised names by path
func pickOrder(files []services.FileListing) []services.FileListing {
	listing := make([]services.FileListing, len(files))
	copy(listing, files)
	sort.SliceStable(listing, func(i, j int) bool {
		a, b := listing[i].Meta, listing[j].Meta
		switch {
		case a != nil && b != nil:
			return a.Timestamp.After(b.Timestamp)
		case a != nil || b != nil:
			return a != nil
		default:
			return listing[i].Entry.RelativePath < listing[j].Entry.RelativePath
		}
	})
	return listing
}

func describeListing(f services.FileListing) string {
	if f.Meta == nil {
		return fmt.Sprintf("%s\n\n%s", f.Entry.RelativePath, labels.UnrecognisedName)
	}
	return fmt.Sprintf("%s\n\n%s\n%s",
		f.Entry.RelativePath,
		f.Meta.LongLabel,
		f.Meta.Timestamp.Format("15:04:05 UTC"),
	)
}
