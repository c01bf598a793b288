package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/services"
	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Launch interactive dashboard (alias: dash)",
	Long: `Launch a full-screen dashboard with the inventory and the history.

The dashboard follows the folder: whenever a CSV changes both views are
recomputed. Older refreshes still running are cancelled.

Keyboard Shortcuts:
  Navigation:
    ↑/k ↓/j     Move between paper codes
    g / G       Jump to top / bottom
    tab         Switch inventory / history

  Inventory:
    enter       Show or hide other widths
    a           Show every width
    /           Search by PAPER_CODE or WIDTH
    y           Copy inventory to the clipboard

  History:
    + / -       More / fewer days
    c           Write HTML chart

  General:
    r           Refresh now
    ?           Show help
    q           Quit dashboard`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().IntVarP(&historyMaxDays, "max-days", "n", 0, "Most recent days to include (0 = all, default from config)")
	dashboardCmd.Flags().IntVarP(&historyWorkers, "workers", "w", 0, "Files read in parallel (default from config)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(getContext())
	defer cancel()

	// Warnings from the services would tear the alternate screen
	if err := appDirs.Initialize(); err == nil {
		if f, err := tea.LogToFile(filepath.Join(appDirs.CachePath, "dashboard.log"), "bobina"); err == nil {
			defer f.Close()
		}
	}

	historyReq := historyRequest(cmd)
	view := services.NewLiveView(
		inventoryService,
		historyService,
		services.InventoryRequest{AllowFallback: appConfig.LiveFallback},
		historyReq,
	)

	m := newDashboardModel(ctx, view, historyReq.MaxDays)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	watcher, err := newFolderWatcher(snapshotRepo.Root(), watchDebounce())
	if err != nil {
		return err
	}
	defer watcher.Close()

	go watcher.Run(ctx, func() { p.Send(folderChangedMsg{}) })

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}

	return nil
}

// Dashboard tabs
type dashboardTab int

const (
	tabInventory dashboardTab = iota
	tabHistory
)

// Dashboard view modes
type viewMode int

const (
	modeBrowse viewMode = iota
	modeSearch
	modeHelp
)

// Dashboard model
type dashboardModel struct {
	ctx  context.Context
	view *services.LiveView

	state      services.ViewState
	loaded     bool
	refreshing bool
	maxDays    int

	tab      dashboardTab
	mode     viewMode
	groups   []domain.PaperGroup // Groups matching the search
	total    int
	cursor   int
	expanded map[string]bool
	showAll  bool

	searchInput textinput.Model
	history     viewport.Model
	help        help.Model
	keys        keyMap

	width         int
	height        int
	ready         bool
	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
}

// Key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Tab       key.Binding
	Toggle    key.Binding
	ShowAll   key.Binding
	Search    key.Binding
	Copy      key.Binding
	MoreDays  key.Binding
	FewerDays key.Binding
	Chart     key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Toggle, k.Search, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Tab},
		{k.Toggle, k.ShowAll, k.Search, k.Copy},
		{k.MoreDays, k.FewerDays, k.Chart},
		{k.Refresh, k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "subir"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "bajar"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "inicio"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "final"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "inventario/histórico"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "otros widths"),
	),
	ShowAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "todos los widths"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "buscar"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copiar"),
	),
	MoreDays: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "más días"),
	),
	FewerDays: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "menos días"),
	),
	Chart: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "gráfico html"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "actualizar"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "ayuda"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "salir"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancelar"),
	),
}

func newDashboardModel(ctx context.Context, view *services.LiveView, maxDays int) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "PAPER_CODE o WIDTH..."
	ti.CharLimit = 40
	ti.Width = 40

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	return dashboardModel{
		ctx:         ctx,
		view:        view,
		maxDays:     maxDays,
		tab:         tabInventory,
		mode:        modeBrowse,
		expanded:    make(map[string]bool),
		showAll:     appConfig != nil && appConfig.ShowAllWidths,
		searchInput: ti,
		history:     vp,
		help:        help.New(),
		keys:        keys,
		refreshing:  true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.refresh()
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		m.history.Width = msg.Width - 2
		m.history.Height = m.bodyHeight()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateBrowse(msg)
		}

	case folderChangedMsg:
		m.refreshing = true
		return m, m.refresh()

	case refreshedMsg:
		if errors.Is(msg.err, services.ErrStale) {
			// A newer refresh is on its way
			return m, nil
		}
		m.refreshing = false
		if msg.err != nil {
			return m, m.status(msg.err.Error(), ui.StyleError)
		}
		m.state = msg.state
		m.loaded = true
		m.applySearch()
		m.history.SetContent(m.renderHistory())
		return m, nil

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })

	case clearMessageMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil
	}

	if m.tab == tabHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp

	case key.Matches(msg, m.keys.Tab):
		if m.tab == tabInventory {
			m.tab = tabHistory
		} else {
			m.tab = tabInventory
		}

	case key.Matches(msg, m.keys.Refresh):
		m.refreshing = true
		return m, m.refresh()

	case key.Matches(msg, m.keys.MoreDays):
		m.maxDays++
		m.view.SetMaxDays(m.maxDays)
		m.refreshing = true
		return m, m.refresh()

	case key.Matches(msg, m.keys.FewerDays):
		if m.maxDays > 0 {
			m.maxDays--
			m.view.SetMaxDays(m.maxDays)
			m.refreshing = true
			return m, m.refresh()
		}

	case key.Matches(msg, m.keys.Chart):
		return m, m.writeChart()

	case m.tab == tabHistory:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.groups)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(m.groups) > 0 {
			m.cursor = len(m.groups) - 1
		}

	case key.Matches(msg, m.keys.Toggle):
		if len(m.groups) > 0 {
			code := m.groups[m.cursor].PaperCode
			m.expanded[code] = !m.expanded[code]
		}

	case key.Matches(msg, m.keys.ShowAll):
		m.showAll = !m.showAll

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyInventory()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applySearch()
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.groups)-1 {
			m.cursor++
		}

	default:
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.applySearch()
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeBrowse
	}
	return m, nil
}

// applySearch regroups the published inventory with the current search term
func (m *dashboardModel) applySearch() {
	m.groups = nil
	m.total = 0
	if m.state.Inventory != nil {
		matches := domain.SearchInventory(m.state.Inventory.Items, m.searchInput.Value())
		m.groups = domain.GroupByPaperCode(matches)
		m.total = domain.SumRolls(matches)
	}

	if m.cursor >= len(m.groups) {
		m.cursor = len(m.groups) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m dashboardModel) bodyHeight() int {
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Cargando..."
	}

	if m.mode == modeHelp {
		return m.viewHelp()
	}

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	if m.tab == tabInventory {
		s.WriteString(m.renderSearchBar())
		s.WriteString("\n")
		s.WriteString(m.renderInventory(m.bodyHeight()))
	} else {
		s.WriteString(m.history.View())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())

	return s.String()
}

func (m dashboardModel) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	full := help.New()
	full.ShowAll = true
	full.Width = m.width

	var s strings.Builder
	s.WriteString(titleStyle.Render(labels.HelpTitle))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(full.View(m.keys)))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  " + labels.HelpReturn))
	s.WriteString("\n")
	return s.String()
}

func (m dashboardModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	statsStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Align(lipgloss.Right)

	folder := snapshotRepo.Root()
	if home, err := os.UserHomeDir(); err == nil {
		folder = strings.Replace(folder, home, "~", 1)
	}

	title := titleStyle.Render(ui.IconRoll + " " + labels.InventoryTitle)
	stats := statsStyle.Render(folder)

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 0 {
		spacer = 0
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacer),
		stats,
	)
}

func (m dashboardModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Underline(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Padding(0, 1)

	inv, hist := inactive, inactive
	if m.tab == tabInventory {
		inv = active
	} else {
		hist = active
	}

	subtitle := ""
	if m.state.Inventory != nil {
		subtitle = labels.LatestFile(m.state.Inventory.Snapshot.RelativePath)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		inv.Render(labels.TabInventory),
		hist.Render(labels.TabHistory),
		"  ",
		ui.StyleMuted.Render(subtitle),
	)
}

func (m dashboardModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeSearch {
		borderColor = ui.ColorPrimary
	}

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 4)

	prompt := ui.StyleMuted.Render("🔍 ")
	if m.mode == modeSearch {
		prompt = ui.StylePrimary.Render("🔍 ")
	}

	content := prompt + m.searchInput.View()
	if m.mode != modeSearch && m.searchInput.Value() == "" {
		content = prompt + ui.StyleMuted.Render(labels.SearchHint)
	}

	return searchStyle.Render(content)
}

// renderInventory lists the groups, scrolled so the cursor stays visible
func (m dashboardModel) renderInventory(height int) string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Italic(true).
		Padding(1, 2)

	switch {
	case !m.loaded:
		return emptyStyle.Render(labels.Loading)
	case errors.Is(m.state.InventoryErr, services.ErrNoSnapshots):
		return emptyStyle.Render(labels.NoSnapshot)
	case m.state.InventoryErr != nil:
		return emptyStyle.Render(m.state.InventoryErr.Error())
	case len(m.groups) == 0:
		return emptyStyle.Render(labels.NoData)
	}

	widthStyle := lipgloss.NewStyle().Width(8).Align(lipgloss.Right)

	var lines []string
	cursorLine := 0
	for i, group := range m.groups {
		selected := i == m.cursor
		if selected {
			cursorLine = len(lines)
		}
		lines = append(lines, renderGroupHeader(group, selected))

		expanded := m.showAll || m.expanded[group.PaperCode]
		rows := group.Preferred
		if expanded {
			rows = group.Widths
		}
		for _, item := range rows {
			lines = append(lines, "    "+widthStyle.Render(item.WidthString())+"  "+labels.Rolls(item.TotalRolls))
		}

		if len(group.Additional) > 0 && !m.showAll {
			hint := labels.OtherWidths + ": " + labels.ShowMore(len(group.Additional))
			if expanded {
				hint = labels.HideOtherWidths
			}
			lines = append(lines, "    "+ui.StyleMuted.Render(hint))
		}
	}

	start := 0
	if cursorLine >= height {
		start = cursorLine - height + 1
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func renderGroupHeader(group domain.PaperGroup, selected bool) string {
	cursor := "  "
	codeStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault).Bold(true)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		codeStyle = ui.StylePrimary.Copy().Bold(true)
	}

	meta := labels.Rolls(group.TotalRolls) + " · " + labels.Variants(len(group.Widths))
	return cursor + padRight(codeStyle.Render(group.PaperCode), 14) + ui.StyleMuted.Render(meta)
}

func (m dashboardModel) renderHistory() string {
	var b strings.Builder
	switch {
	case m.state.HistoryErr != nil:
		b.WriteString(ui.FormatError(labels.HistoryFailed + ": " + m.state.HistoryErr.Error()))
	case m.state.History != nil:
		printHistory(&b, m.state.History, true)
	}
	return b.String()
}

func (m dashboardModel) renderFooter() string {
	var statusLine string
	switch {
	case m.message != "" && time.Now().Before(m.messageExpiry):
		statusLine = m.messageStyle.Render(m.message)
	case m.refreshing:
		statusLine = ui.StyleInfo.Render(labels.Refreshing)
	case m.loaded:
		statusLine = ui.StyleMuted.Render(fmt.Sprintf("%s · %s · %s",
			labels.Items(m.total),
			labels.HistorySubtitle(m.maxDays),
			m.state.UpdatedAt.Format("15:04:05"),
		))
	default:
		statusLine = ui.StyleMuted.Render(labels.Ready)
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		statusLine,
		m.help.View(m.keys),
	))
}

func padRight(s string, width int) string {
	// Strip ANSI codes to get real length
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}

// Commands

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type folderChangedMsg struct{}

type refreshedMsg struct {
	state services.ViewState
	err   error
}

func (m dashboardModel) status(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: message, style: style}
	}
}

func (m dashboardModel) refresh() tea.Cmd {
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		state, err := view.Refresh(ctx)
		return refreshedMsg{state: state, err: err}
	}
}

func (m dashboardModel) writeChart() tea.Cmd {
	history := m.state.History
	return func() tea.Msg {
		if history == nil {
			return statusMsg{message: labels.NoHistoryFiles, style: ui.StyleWarning}
		}
		path, err := writeChart(history, "-")
		if err != nil {
			return statusMsg{message: labels.WithError(labels.ChartFailed, err), style: ui.StyleError}
		}
		return statusMsg{message: ui.IconChart + " " + path, style: ui.StyleSuccess}
	}
}

func (m dashboardModel) copyInventory() tea.Cmd {
	inventory := m.state.Inventory
	return func() tea.Msg {
		if inventory == nil {
			return statusMsg{message: labels.NoSnapshot, style: ui.StyleWarning}
		}
		if err := clipboard.WriteAll(inventoryTable(inventory, true).TSV()); err != nil {
			return statusMsg{message: labels.WithError(labels.CopyFailed, err), style: ui.StyleError}
		}
		return statusMsg{message: labels.Copied, style: ui.StyleSuccess}
	}
}
