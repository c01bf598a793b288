package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the CSV files of the folder with their timestamps",
	Long: `List every CSV file found below the snapshot folder.

Files named YYYYMMDD-HHMMSS.csv show the parsed date and time; any other
name is listed as not recognised and is ignored by inventory and history.`,
	RunE: runFiles,
}

func runFiles(cmd *cobra.Command, args []string) error {
	resp, err := inventoryService.Files(getContext())
	if err != nil {
		fmt.Println(ui.FormatError(labels.ListFailed))
		return err
	}

	fmt.Println(ui.FormatMuted(labels.Folder(snapshotRepo.Root())))
	fmt.Println()

	if len(resp.Files) == 0 {
		fmt.Println(ui.FormatWarning(labels.NoSnapshot))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ARCHIVO"},
		{Header: "FECHA"},
		{Header: "HORA (UTC)"},
	})

	for _, f := range resp.Files {
		name := f.Entry.RelativePath
		if resp.Latest != nil && resp.Latest.Entry.RelativePath == name {
			name = ui.IconFile + " " + name
		}

		if f.Meta == nil {
			table.AddRow([]string{name, labels.UnrecognisedName, ""})
			continue
		}
		table.AddRow([]string{name, f.Meta.DateLabel, f.Meta.Timestamp.Format("15:04:05")})
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatInfo(fmt.Sprintf("%d archivo(s), %d con nombre reconocido", len(resp.Files), resp.Recognised)))
	if resp.Latest != nil {
		fmt.Println(ui.FormatSuccess(labels.LatestFile(resp.Latest.Entry.RelativePath)))
	}

	return nil
}
