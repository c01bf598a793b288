package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var (
	watchSearch string
	watchAll    bool
	watchQuiet  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [search]",
	Short: "Reprint inventory and history whenever a CSV changes",
	Long: `Watch the snapshot folder and reprint the inventory and the history
every time a CSV file is created, written, renamed or removed.

Bursts of changes are debounced (watch_debounce_ms in the config). When a
new change arrives while a refresh is still running, the old refresh is
cancelled and its result is discarded.

Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchSearch, "search", "s", "", "Filter by PAPER_CODE or WIDTH")
	watchCmd.Flags().BoolVarP(&watchAll, "all", "a", false, "Show every width, not only the preferred ones")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only print the inventory")
	watchCmd.Flags().IntVarP(&historyMaxDays, "max-days", "n", 0, "Most recent days to include (0 = all, default from config)")
	watchCmd.Flags().IntVarP(&historyWorkers, "workers", "w", 0, "Files read in parallel (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	search := watchSearch
	if len(args) == 1 {
		search = args[0]
	}
	showAll := watchAll || appConfig.ShowAllWidths

	view := services.NewLiveView(
		inventoryService,
		historyService,
		services.InventoryRequest{Search: search, AllowFallback: appConfig.LiveFallback},
		historyRequest(cmd),
	)

	watcher, err := newFolderWatcher(snapshotRepo.Root(), watchDebounce())
	if err != nil {
		fmt.Println(ui.FormatError(labels.WatchFailed))
		return err
	}
	defer watcher.Close()

	var printMu sync.Mutex
	refresh := func() {
		state, err := view.Refresh(ctx)
		if err != nil {
			// Superseded or shutting down
			if errors.Is(err, services.ErrStale) || errors.Is(err, context.Canceled) {
				return
			}
			fmt.Println(ui.FormatError(err.Error()))
			return
		}

		printMu.Lock()
		defer printMu.Unlock()
		printViewState(state, search, showAll)
	}

	fmt.Println(ui.FormatInfo(ui.IconWatch + " " + labels.Watching(snapshotRepo.Root())))
	fmt.Println(ui.FormatMuted(labels.StopHint))
	fmt.Println()

	go refresh()

	return watcher.Run(ctx, func() { go refresh() })
}

func watchDebounce() time.Duration {
	ms := appConfig.WatchDebounceMS
	if ms <= 0 {
		ms = 500
	}
	return time.Duration(ms) * time.Millisecond
}

func printViewState(state services.ViewState, search string, showAll bool) {
	fmt.Println(ui.FormatMuted(fmt.Sprintf("── %s (#%d) ──", state.UpdatedAt.Format("15:04:05"), state.Generation)))

	switch {
	case errors.Is(state.InventoryErr, services.ErrNoSnapshots):
		fmt.Println(ui.FormatWarning(labels.NoSnapshot))
	case state.InventoryErr != nil:
		fmt.Println(ui.FormatError(state.InventoryErr.Error()))
	default:
		printInventory(os.Stdout, state.Inventory, search, showAll)
	}

	if watchQuiet {
		fmt.Println()
		return
	}

	fmt.Println()
	if state.HistoryErr != nil {
		fmt.Println(ui.FormatError(labels.HistoryFailed + ": " + state.HistoryErr.Error()))
	} else {
		printHistory(os.Stdout, state.History, false)
	}
	fmt.Println()
}
