package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/pkg/appdirs"
	"github.com/kamal-hamza/bobina/pkg/config"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [folder]",
	Short: "Create the bobina config and select the snapshot folder",
	Long: `Create the bobina configuration file and remember the snapshot folder.

The config is written to $XDG_CONFIG_HOME/bobina/config.yaml (or the platform
equivalent). Running init again with a folder only updates the folder.

Examples:
  bobina init ~/Descargas/inventario
  bobina init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Rewrite the config with default values")
}

func runInit(cmd *cobra.Command, args []string) error {
	d, err := appdirs.New()
	if err != nil {
		fmt.Println(ui.FormatError(labels.ConfigDirsFailed))
		return err
	}

	// Check if already initialized
	if d.ConfigExists() && len(args) == 0 && !initForce {
		fmt.Println(ui.FormatWarning(labels.ConfigExists))
		fmt.Println(ui.FormatMuted(labels.Location(d.ConfigPath)))
		fmt.Println(ui.FormatMuted(labels.ConfigExistsHint))
		return nil
	}

	cfg := config.DefaultConfig()
	if !initForce {
		loaded, err := config.Load(d.ConfigPath)
		if err != nil {
			fmt.Println(ui.FormatWarning(labels.ConfigIgnored(err)))
		} else {
			cfg = loaded
		}
	}

	if len(args) == 1 {
		dir, err := validateFolder(args[0])
		if err != nil {
			fmt.Println(ui.FormatError(err.Error()))
			return err
		}
		cfg.Directory = dir
	}

	fmt.Println(ui.FormatRocket(labels.Initializing))
	fmt.Println()

	if err := d.Initialize(); err != nil {
		fmt.Println(ui.FormatError(labels.CreateDirsFailed))
		return err
	}

	if err := cfg.Save(d.ConfigPath); err != nil {
		fmt.Println(ui.FormatError(labels.ConfigWriteFailed))
		return err
	}

	fmt.Println(ui.FormatSuccess(labels.ConfigWritten))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Configuración", d.ConfigPath))
	fmt.Println(ui.RenderKeyValue("Gráficos", d.ChartsPath))
	if cfg.Directory != "" {
		fmt.Println(ui.RenderKeyValue("Carpeta", cfg.Directory))
	} else {
		fmt.Println(ui.RenderKeyValue("Carpeta", labels.NoFolder))
	}
	fmt.Println()
	fmt.Println(ui.FormatInfo(labels.NextSteps))
	fmt.Println(ui.FormatMuted("  1. Ver el inventario actual: bobina inventory"))
	fmt.Println(ui.FormatMuted("  2. Ver el histórico diario: bobina history"))
	fmt.Println(ui.FormatMuted("  3. Seguir la carpeta en vivo: bobina dashboard"))

	return nil
}
