package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show snapshot statistics and export activity",
	Long: `Summarise the latest snapshot and the export activity of the folder.

Includes:
  - Row counts of the latest snapshot
  - Paper codes with the most available rolls
  - Exports per day over the last 7 days of data
  - Consecutive days with at least one export`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	files, err := inventoryService.Files(ctx)
	if err != nil {
		return err
	}

	resp, err := inventoryService.Execute(ctx, services.InventoryRequest{AllowFallback: appConfig.LiveFallback})
	if err != nil {
		if errors.Is(err, services.ErrNoSnapshots) {
			fmt.Println(ui.FormatWarning(labels.NoSnapshot))
			return nil
		}
		return err
	}

	fmt.Println(ui.FormatTitle(labels.StatsTitle))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Archivo:"), resp.Snapshot.RelativePath)
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Filas:"), labels.Count(resp.Rows))
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Filas disponibles:"), labels.Count(resp.Available))
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Paper codes:"), labels.Count(len(resp.Groups)))
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Variantes:"), labels.Variants(len(resp.Items)))
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Rollos:"), labels.Rolls(resp.Total))
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Archivos CSV:"), labels.Count(len(files.Files)))
	w.Flush()
	printMissingColumns(os.Stdout, resp.MissingColumns)

	fmt.Println()

	activity := fileActivity(files.Files)
	if files.Latest != nil && files.Latest.Meta != nil {
		last := files.Latest.Meta.Timestamp
		renderHeatmap(activity, last)

		streak := exportStreak(activity, last)
		streakIcon := "🔥"
		if streak <= 1 {
			streakIcon = "🧊"
		}
		fmt.Printf("%s %s %s\n", streakIcon, ui.StyleBold.Render(labels.ConsecutiveDays), labels.Days(streak))
		fmt.Printf("   %s %s\n", ui.StyleMuted.Render(labels.LastExport), files.Latest.Meta.LongLabel)
		fmt.Println()
	}

	renderTopPaperCodes(resp.Groups, 5)

	return nil
}

// fileActivity counts the recognised files of each "YYYY-MM-DD" day
func fileActivity(files []services.FileListing) map[string]int {
	activity := make(map[string]int)
	for _, f := range files {
		if f.Meta != nil {
			activity[f.Meta.DateKey]++
		}
	}
	return activity
}

// exportStreak counts consecutive days with exports, going back from last
func exportStreak(activity map[string]int, last time.Time) int {
	streak := 0
	current := last.UTC()
	for activity[current.Format("2006-01-02")] > 0 {
		streak++
		current = current.AddDate(0, 0, -1)
	}
	return streak
}

// renderHeatmap prints one block per day for the 7 days ending at last
func renderHeatmap(activity map[string]int, last time.Time) {
	fmt.Println(ui.StyleHeader.Render(labels.ExportsLastWeek))

	var blocks []string
	var dayLabels []string

	for i := 6; i >= 0; i-- {
		day := last.UTC().AddDate(0, 0, -i)
		count := activity[day.Format("2006-01-02")]

		block := "⬜"
		if count > 0 {
			block = "🟩"
		}

		blocks = append(blocks, block)
		dayLabels = append(dayLabels, fmt.Sprintf("%-4s", day.Format("02")))
	}

	fmt.Println(strings.Join(blocks, "  "))
	fmt.Println(ui.StyleMuted.Render(strings.Join(dayLabels, "")))
	fmt.Println()
}

// topPaperCodes returns up to limit groups with the most rolls
func topPaperCodes(groups []domain.PaperGroup, limit int) []domain.PaperGroup {
	sorted := make([]domain.PaperGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalRolls > sorted[j].TotalRolls
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// renderTopPaperCodes displays a horizontal bar chart
func renderTopPaperCodes(groups []domain.PaperGroup, limit int) {
	top := topPaperCodes(groups, limit)
	if len(top) == 0 || top[0].TotalRolls == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(labels.TopPaperCodes))

	maxCount := top[0].TotalRolls
	barWidth := 20

	for _, g := range top {
		length := int(math.Ceil(float64(g.TotalRolls) / float64(maxCount) * float64(barWidth)))
		bar := strings.Repeat("█", length)

		fmt.Printf("%s %-15s %s\n",
			ui.StyleAccent.Render(padRight(bar, barWidth)),
			g.PaperCode,
			ui.StyleMuted.Render(labels.Rolls(g.TotalRolls)),
		)
	}
}
