package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/adapters/chart"
	"github.com/kamal-hamza/bobina/internal/adapters/csvdecoder"
	"github.com/kamal-hamza/bobina/internal/adapters/repository"
	"github.com/kamal-hamza/bobina/internal/core/ports"
	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/appdirs"
	"github.com/kamal-hamza/bobina/pkg/config"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var (
	// Global locations and configuration
	appDirs   *appdirs.Dirs
	appConfig *config.Config

	// Services
	inventoryService *services.InventoryService
	historyService   *services.HistoryService

	// Adapters
	snapshotRepo  *repository.DirectoryRepository
	tableDecoder  *csvdecoder.Decoder
	chartRenderer ports.ChartRenderer

	// Global flags
	dirFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bobina",
	Short: "Bobina - roll inventory snapshot viewer",
	Long: ui.StyleTitle.Render("Bobina") + " - Roll Inventory Viewer\n\n" +
		"Reads the timestamped CSV exports of a folder (YYYYMMDD-HHMMSS.csv),\n" +
		"shows the available rolls of the latest snapshot and a per-day history\n" +
		"of saldo and completa rolls.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Snapshot folder (overrides the configured directory)")
}

// needsSnapshots reports whether a command reads the snapshot folder
func needsSnapshots(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "init", "config", "version", "help", "bobina":
		return false
	}
	return true
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for init command
	if cmd.Name() == "init" {
		return nil
	}

	d, err := appdirs.New()
	if err != nil {
		return fmt.Errorf("failed to determine app directories: %w", err)
	}
	appDirs = d

	cfg, err := config.Load(appDirs.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	if !needsSnapshots(cmd) {
		return nil
	}

	dir, err := resolveDirectory()
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		fmt.Println(ui.FormatInfo(labels.SetupHint))
		return err
	}

	// Initialize adapters
	snapshotRepo = repository.NewDirectoryRepository(dir)
	tableDecoder = csvdecoder.New(csvdecoder.Options{
		Delimiter:  appConfig.DelimiterRune(),
		Encoding:   appConfig.Encoding,
		InferTypes: appConfig.InferTypes,
	})
	chartRenderer = chart.NewEChartsRenderer(appConfig.ChartTitle)

	// Initialize services
	inventoryService = services.NewInventoryService(snapshotRepo, tableDecoder)
	historyService = services.NewHistoryService(snapshotRepo, tableDecoder)

	return nil
}

// resolveDirectory picks the snapshot folder from the flag, then the config
func resolveDirectory() (string, error) {
	dir := dirFlag
	if dir == "" {
		dir = appConfig.Directory
	}
	if dir == "" {
		return "", fmt.Errorf("no snapshot folder selected")
	}

	return validateFolder(dir)
}

// validateFolder returns the absolute path of dir if it is an existing folder
func validateFolder(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid folder %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot open folder %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a folder: %s", abs)
	}

	return abs, nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
