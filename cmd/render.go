package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

// inventoryTable lays out the grouped inventory. Non-preferred widths are
// collapsed into one summary row per paper code unless showAll is set.
func inventoryTable(resp *services.InventoryResponse, showAll bool) *ui.Table {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "PAPER_CODE", Width: 12},
		{Header: "WIDTH", Align: "right"},
		{Header: "ROLLOS", Align: "right"},
	})

	for _, group := range resp.Groups {
		code := group.PaperCode
		rows := group.Preferred
		if showAll {
			rows = group.Widths
		}

		for _, item := range rows {
			table.AddRow([]string{code, item.WidthString(), labels.Count(item.TotalRolls)})
			code = ""
		}

		if !showAll && len(group.Additional) > 0 {
			table.AddRow([]string{code, labels.OtherWidths, labels.ShowMore(len(group.Additional))})
		}
	}

	table.SetFooter([]string{"Total", "", labels.Items(resp.Total)})
	return table
}

func printInventory(w io.Writer, resp *services.InventoryResponse, search string, showAll bool) {
	fmt.Fprintln(w, ui.FormatTitle(labels.InventoryTitle))
	fmt.Fprintln(w, ui.FormatSuccess(labels.LatestFile(resp.Snapshot.RelativePath)))
	if resp.Meta != nil {
		fmt.Fprintln(w, ui.FormatMuted(resp.Meta.LongLabel+" "+resp.Meta.Timestamp.Format("15:04:05")))
	}
	printMissingColumns(w, resp.MissingColumns)
	if search != "" {
		fmt.Fprintln(w, ui.FormatInfo(fmt.Sprintf("Búsqueda: %q", search)))
	}
	fmt.Fprintln(w)

	if len(resp.Groups) == 0 {
		fmt.Fprintln(w, ui.FormatMuted(labels.NoData))
		fmt.Fprintln(w, ui.FormatMuted(labels.Items(resp.Total)))
		return
	}

	fmt.Fprint(w, inventoryTable(resp, showAll).Render())
}

func printMissingColumns(w io.Writer, missing []string) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintln(w, ui.FormatWarning(labels.MissingColumns(missing)))
}

// daysTable lists each day with the file it was read from
func daysTable(days []domain.DailyMetric) *ui.Table {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "FECHA"},
		{Header: "ARCHIVO"},
		{Header: "SALDO", Align: "right"},
		{Header: "COMPLETA", Align: "right"},
	})

	for _, day := range days {
		source := day.Source
		if day.Err != nil {
			source += " " + ui.IconWarning
		}
		table.AddRow([]string{
			day.DateLabel,
			source,
			labels.Count(day.Saldo),
			labels.Count(day.Completa),
		})
	}

	return table
}

// monthsTable summarises the monthly averages
func monthsTable(months []domain.MonthlyStat) *ui.Table {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "MES"},
		{Header: "DÍAS", Align: "right"},
		{Header: "PROM. SALDO", Align: "right"},
		{Header: "PROM. COMPLETA", Align: "right"},
	})

	for _, month := range months {
		table.AddRow([]string{
			month.Label,
			labels.Count(month.DayCount),
			labels.Average(month.SaldoAverage()),
			labels.Average(month.CompletaAverage()),
		})
	}

	return table
}

func printHistory(w io.Writer, resp *services.HistoryResponse, detail bool) {
	fmt.Fprintln(w, ui.FormatTitle(labels.HistoryTitle))
	fmt.Fprintln(w, ui.FormatMuted(labels.HistorySubtitle(resp.MaxDays)))
	fmt.Fprintln(w)

	history := resp.History
	if len(history.Days) == 0 {
		fmt.Fprintln(w, ui.FormatMuted(labels.NoHistoryFiles))
		return
	}

	fmt.Fprint(w, daysTable(history.Days).Render())
	if resp.Failed > 0 {
		fmt.Fprintln(w, ui.FormatWarning(fmt.Sprintf("%d archivo(s) no se pudieron procesar", resp.Failed)))
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, monthsTable(history.Months).Render())

	if !detail {
		return
	}

	for _, month := range history.Months {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.StyleHeader.Render(month.Label)+" "+ui.FormatMuted(labels.Days(month.DayCount)))
		for _, day := range month.Days {
			fmt.Fprintf(w, "  %s  %s %s  %s %s\n",
				day.Label,
				ui.FormatMuted("saldo"), labels.Count(day.Saldo),
				ui.FormatMuted("completa"), labels.Count(day.Completa),
			)
		}
	}
}

// inventoryDoc is the --json shape of an inventory
type inventoryDoc struct {
	Snapshot       string                 `json:"snapshot"`
	DateKey        string                 `json:"dateKey,omitempty"`
	Timestamp      int64                  `json:"timestamp,omitempty"`
	Items          []domain.InventoryItem `json:"items"`
	Total          int                    `json:"total"`
	MissingColumns []string               `json:"missingColumns,omitempty"`
}

func newInventoryDoc(resp *services.InventoryResponse) inventoryDoc {
	out := inventoryDoc{
		Snapshot:       resp.Snapshot.RelativePath,
		Items:          resp.Matches,
		Total:          resp.Total,
		MissingColumns: resp.MissingColumns,
	}
	if resp.Meta != nil {
		out.DateKey = resp.Meta.DateKey
		out.Timestamp = resp.Meta.TimestampMillis()
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
