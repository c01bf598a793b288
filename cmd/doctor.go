package cmd

import (
	"fmt"
	"os"
	"errors"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your bobina setup",
	Long: `Diagnose issues with your bobina setup.

Checks for:
  - Configuration file existence
  - Snapshot folder and CSV naming
  - Required columns of the latest snapshot
  - Clipboard and editor support`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	ctx := getContext()

	fmt.Println(ui.FormatTitle("🏥 Bobina Doctor"))
	fmt.Println()

	// 1. Config
	checkStep("Archivo de configuración", func() error {
		if !appDirs.ConfigExists() {
			return fmt.Errorf("no existe en %s (se usan valores por defecto)", appDirs.ConfigPath)
		}
		return nil
	})

	// 2. Folder contents
	var files *services.FilesResponse
	checkStep("Carpeta de archivos", func() error {
		var err error
		files, err = inventoryService.Files(ctx)
		if err != nil {
			return err
		}
		if len(files.Files) == 0 {
			return fmt.Errorf("no hay archivos CSV en %s", snapshotRepo.Root())
		}
		return nil
	})

	checkStep("Nombres de archivo", func() error {
		if files == nil || len(files.Files) == 0 {
			return fmt.Errorf("nada que revisar")
		}
		if files.Recognised == 0 {
			return fmt.Errorf("ningún archivo se llama YYYYMMDD-HHMMSS.csv")
		}
		if skipped := len(files.Files) - files.Recognised; skipped > 0 {
			return fmt.Errorf("%d archivo(s) ignorado(s) por el histórico", skipped)
		}
		return nil
	})

	// 3. Latest snapshot
	fmt.Println()
	fmt.Println(ui.FormatInfo(labels.CheckingLatest))

	checkStep("Legible", func() error {
		resp, err := inventoryService.Execute(ctx, services.InventoryRequest{AllowFallback: appConfig.LiveFallback})
		if err != nil {
			return err
		}
		if len(resp.MissingColumns) > 0 {
			return errors.New(labels.MissingColumns(resp.MissingColumns))
		}
		if resp.Available == 0 {
			return fmt.Errorf("%s no tiene rollos disponibles", resp.Snapshot.RelativePath)
		}
		return nil
	})

	// 4. Environment
	fmt.Println()
	checkStep("Portapapeles", func() error {
		if clipboard.Unsupported {
			return fmt.Errorf("no soportado (inventory --copy desactivado)")
		}
		return nil
	})

	checkStep("Variable EDITOR", func() error {
		if appConfig.Editor == "" && os.Getenv("EDITOR") == "" {
			return fmt.Errorf("no definida (se usa 'vi')")
		}
		return nil
	})
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
