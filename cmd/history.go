package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

const defaultChartFile = "historial.html"

var (
	historyMaxDays int
	historyWorkers int
	historyChart   string
	historyOpen    bool
	historyJSON    bool
	historyDetail  bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "Show saldo/completa per day and month (alias: hist)",
	Long: `Show the historical view of the folder.

For every calendar day the last snapshot of that day is read and its
SALDO and COMPLETA rolls are counted. Days are rolled up into months with
average counts. Files that cannot be read count as zero for their day.

Use --max-days 0 to include every day.

Examples:
  bobina history
  bobina history --max-days 30 --detail
  bobina history --chart --open
  bobina history --chart=reportes/septiembre.html`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyMaxDays, "max-days", "n", 0, "Most recent days to include (0 = all, default from config)")
	historyCmd.Flags().IntVarP(&historyWorkers, "workers", "w", 0, "Files read in parallel (default from config)")
	historyCmd.Flags().StringVar(&historyChart, "chart", "", "Write an HTML chart (--chart=path; default location when no path is given)")
	historyCmd.Flags().Lookup("chart").NoOptDefVal = "-"
	historyCmd.Flags().BoolVar(&historyOpen, "open", false, "Open the chart after writing it")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the history as JSON")
	historyCmd.Flags().BoolVar(&historyDetail, "detail", false, "List the days of each month")
}

// historyRequest builds the request from flags, falling back to config.
// Negative day counts are passed through; the service treats them as 0.
func historyRequest(cmd *cobra.Command) services.HistoryRequest {
	maxDays := appConfig.MaxDays
	if f := cmd.Flags().Lookup("max-days"); f != nil && f.Changed {
		maxDays = historyMaxDays
	}
	workers := historyWorkers
	if workers <= 0 {
		workers = appConfig.MaxWorkers
	}
	return services.HistoryRequest{MaxDays: maxDays, MaxWorkers: workers}
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := historyService.Execute(ctx, historyRequest(cmd))
	if err != nil {
		fmt.Println(ui.FormatError(labels.HistoryFailed))
		return err
	}

	if historyJSON {
		return writeJSON(os.Stdout, resp.History)
	}

	printHistory(os.Stdout, resp, historyDetail)

	if historyChart == "" {
		return nil
	}

	path, err := writeChart(resp, historyChart)
	if err != nil {
		fmt.Println(ui.FormatError(labels.ChartFailed))
		return err
	}

	fmt.Println()
	fmt.Println(ui.FormatSuccess(ui.IconChart + " Chart written: " + path))

	if historyOpen {
		if err := OpenFile(path, ""); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
	}

	return nil
}

// writeChart renders the history to target; "-" means the configured or default location
func writeChart(resp *services.HistoryResponse, target string) (string, error) {
	path := target
	if path == "-" {
		path = appConfig.ChartOutput
	}
	if path == "" {
		if err := appDirs.Initialize(); err != nil {
			return "", err
		}
		path = appDirs.ChartPath(defaultChartFile)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}

	if err := chartRenderer.Render(f, resp.History); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write chart file: %w", err)
	}

	return path, nil
}
