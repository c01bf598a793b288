package cmd

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Browse the daily saldo/completa counts as terminal bars",
	Long: `Open a full-screen bar chart of the history.

Keys:
  ↑↓/jk     Move between days (or months)
  tab       Switch days / monthly averages
  s         Switch SALDO / COMPLETA
  g / G     First / last row
  q / Esc   Quit`,
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().IntVarP(&historyMaxDays, "max-days", "n", 0, "Most recent days to include (0 = all, default from config)")
	trendCmd.Flags().IntVarP(&historyWorkers, "workers", "w", 0, "Files read in parallel (default from config)")
}

func runTrend(cmd *cobra.Command, args []string) error {
	resp, err := historyService.Execute(getContext(), historyRequest(cmd))
	if err != nil {
		fmt.Println(ui.FormatError(labels.HistoryFailed))
		return err
	}

	if len(resp.History.Days) == 0 {
		fmt.Println(ui.FormatWarning(labels.NoHistoryFiles))
		return nil
	}

	view, err := NewTrendView(resp.History)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}

	return view.Run()
}

// trendRow is one bar of the chart
type trendRow struct {
	label    string
	detail   string
	saldo    float64
	completa float64
}

// TrendView draws the history as horizontal bars
type TrendView struct {
	days          []trendRow
	months        []trendRow
	screen        tcell.Screen
	width         int
	height        int
	scrollOffset  int
	selectedIndex int
	monthly       bool
	showCompleta  bool
}

// NewTrendView creates a trend viewer on the terminal
func NewTrendView(history *domain.History) (*TrendView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	return newTrendView(history, screen)
}

func newTrendView(history *domain.History, screen tcell.Screen) (*TrendView, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}

	width, height := screen.Size()

	v := &TrendView{
		screen: screen,
		width:  width,
		height: height,
	}

	for _, day := range history.Days {
		detail := day.Source
		if day.Err != nil {
			detail += " " + ui.IconWarning + " " + day.Err.Error()
		}
		v.days = append(v.days, trendRow{
			label:    day.DateLabel,
			detail:   detail,
			saldo:    float64(day.Saldo),
			completa: float64(day.Completa),
		})
	}

	for _, month := range history.Months {
		v.months = append(v.months, trendRow{
			label:    month.Label,
			detail:   labels.Days(month.DayCount),
			saldo:    month.SaldoAverage(),
			completa: month.CompletaAverage(),
		})
	}

	// Start on the newest day
	if len(v.days) > 0 {
		v.selectedIndex = len(v.days) - 1
		v.adjustScroll()
	}

	return v, nil
}

// Run starts the interactive viewer
func (v *TrendView) Run() error {
	defer v.screen.Fini()

	v.screen.Clear()
	v.render()

	for {
		ev := v.screen.PollEvent()

		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.width, v.height = ev.Size()
			v.screen.Sync()
			v.render()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}

			v.handleKeyPress(ev)
			v.render()

		case nil:
			// Screen finalized
			return nil
		}
	}
}

// handleKeyPress processes keyboard input
func (v *TrendView) handleKeyPress(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyCtrlP:
		v.moveCursor(-1)
	case tcell.KeyDown, tcell.KeyCtrlN:
		v.moveCursor(1)
	case tcell.KeyTab:
		v.toggleMonthly()
	case tcell.KeyHome:
		v.selectedIndex = 0
		v.scrollOffset = 0
	case tcell.KeyEnd:
		v.selectedIndex = len(v.rows()) - 1
		v.adjustScroll()
	}

	// Vim-style navigation
	switch ev.Rune() {
	case 'j':
		v.moveCursor(1)
	case 'k':
		v.moveCursor(-1)
	case 's':
		v.showCompleta = !v.showCompleta
	case 'g':
		v.selectedIndex = 0
		v.scrollOffset = 0
	case 'G':
		v.selectedIndex = len(v.rows()) - 1
		v.adjustScroll()
	}
}

func (v *TrendView) rows() []trendRow {
	if v.monthly {
		return v.months
	}
	return v.days
}

func (v *TrendView) toggleMonthly() {
	v.monthly = !v.monthly
	v.selectedIndex = len(v.rows()) - 1
	if v.selectedIndex < 0 {
		v.selectedIndex = 0
	}
	v.scrollOffset = 0
	v.adjustScroll()
}

// moveCursor moves the selection cursor
func (v *TrendView) moveCursor(delta int) {
	rows := v.rows()
	if len(rows) == 0 {
		return
	}

	v.selectedIndex += delta

	if v.selectedIndex < 0 {
		v.selectedIndex = 0
	}
	if v.selectedIndex >= len(rows) {
		v.selectedIndex = len(rows) - 1
	}

	v.adjustScroll()
}

func (v *TrendView) visibleLines() int {
	lines := v.height - 8 // Reserve space for header/footer
	if lines < 1 {
		lines = 1
	}
	return lines
}

// adjustScroll adjusts scroll offset to keep cursor visible
func (v *TrendView) adjustScroll() {
	visibleLines := v.visibleLines()

	if v.selectedIndex < v.scrollOffset {
		v.scrollOffset = v.selectedIndex
	}
	if v.selectedIndex >= v.scrollOffset+visibleLines {
		v.scrollOffset = v.selectedIndex - visibleLines + 1
	}
}

func (r trendRow) value(completa bool) float64 {
	if completa {
		return r.completa
	}
	return r.saldo
}

// render draws the interface
func (v *TrendView) render() {
	v.screen.Clear()

	rows := v.rows()
	series := "SALDO"
	color := tcell.ColorGreen
	if v.showCompleta {
		series = "COMPLETA"
		color = tcell.ColorYellow
	}
	scope := "por día"
	if v.monthly {
		scope = "promedio mensual"
	}

	y := 0
	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorPurple)
	v.drawText(0, y, "┌─ "+labels.HistoryTitle+" · "+series+" "+scope, titleStyle)
	y++

	if len(rows) > 0 && v.selectedIndex < len(rows) {
		sel := rows[v.selectedIndex]
		info := fmt.Sprintf("│  %s │ saldo %s │ completa %s │ %s",
			sel.label, formatTrendValue(sel.saldo, v.monthly), formatTrendValue(sel.completa, v.monthly), sel.detail)
		v.drawText(0, y, info, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
	y++
	v.drawText(0, y, "└─────────────────────────────────────────────────────────────", tcell.StyleDefault.Foreground(tcell.ColorGray))
	y += 2

	labelWidth := 0
	maxValue := 0.0
	for _, r := range rows {
		if n := len([]rune(r.label)); n > labelWidth {
			labelWidth = n
		}
		if val := r.value(v.showCompleta); val > maxValue {
			maxValue = val
		}
	}

	barSpace := v.width - labelWidth - 14
	if barSpace < 1 {
		barSpace = 1
	}

	end := v.scrollOffset + v.visibleLines()
	if end > len(rows) {
		end = len(rows)
	}

	for i := v.scrollOffset; i < end; i++ {
		r := rows[i]
		val := r.value(v.showCompleta)

		prefix := "  "
		labelStyle := tcell.StyleDefault
		if i == v.selectedIndex {
			prefix = "▶ "
			labelStyle = labelStyle.Reverse(true)
		}

		x := v.drawText(0, y, prefix, tcell.StyleDefault)
		x = v.drawText(x, y, padTrendLabel(r.label, labelWidth), labelStyle)
		x = v.drawText(x, y, " │", tcell.StyleDefault.Foreground(tcell.ColorGray))
		x = v.drawText(x, y, strings.Repeat("█", barLength(val, maxValue, barSpace)), tcell.StyleDefault.Foreground(color))
		v.drawText(x+1, y, formatTrendValue(val, v.monthly), tcell.StyleDefault)
		y++
	}

	// Footer - Help text
	footerY := v.height - 2
	v.drawText(0, footerY, strings.Repeat("─", v.width), tcell.StyleDefault.Foreground(tcell.ColorGray))
	footerY++

	helpText := labels.TrendHelp
	v.drawText(0, footerY, helpText, tcell.StyleDefault.Foreground(tcell.ColorGray))

	v.screen.Show()
}

// barLength scales val to at most space cells; any positive value gets one cell
func barLength(val, maxValue float64, space int) int {
	if val <= 0 || maxValue <= 0 {
		return 0
	}
	n := int(val / maxValue * float64(space))
	if n < 1 {
		n = 1
	}
	return n
}

func formatTrendValue(val float64, average bool) string {
	if average {
		return labels.Average(val)
	}
	return labels.Count(int(val))
}

func padTrendLabel(label string, width int) string {
	if n := len([]rune(label)); n < width {
		return label + strings.Repeat(" ", width-n)
	}
	return label
}

// drawText draws text at the specified position and returns the next column
func (v *TrendView) drawText(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
