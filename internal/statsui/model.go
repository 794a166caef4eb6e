// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/fundus/internal/idle"
	"github.com/verte-zerg/fundus/internal/model"
	"github.com/verte-zerg/fundus/internal/stats"
	"github.com/verte-zerg/fundus/internal/store"
)

const (
	tabOverview = iota
	tabHelpers
	tabItems
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store   *store.Store
	catalog *idle.Catalog
	cfg     model.StatsConfig
	now     func() time.Time

	report stats.Report
	items  []model.FoundItem
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, catalog *idle.Catalog, cfg model.StatsConfig) *Model {
	m := &Model{
		store:    st,
		catalog:  catalog,
		cfg:      cfg,
		now:      time.Now,
		tabs:     []string{"Overview", "Helpers", "Found items"},
		overview: viewport.New(0, 0),
		tables:   map[int]*table.Model{},
	}
	helperTable := newTable(helperColumns())
	itemTable := newTable(itemColumns())
	m.tables[tabHelpers] = &helperTable
	m.tables[tabItems] = &itemTable
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			m.updateLayout()
			return m, nil
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if t, ok := m.tables[m.activeTab]; ok {
				*t, cmd = t.Update(msg)
				return m, cmd
			}
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	ctx := context.Background()
	report, err := stats.BuildReport(ctx, m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	items, err := m.store.ListItems(ctx, "")
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load items.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.items = items
	m.tables[tabHelpers].SetRows(helperRows(report.Helpers, m.catalog))
	m.tables[tabItems].SetRows(itemRows(items, m.now()))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	if err := m.report.Render(&buf, m.catalog, width); err != nil {
		m.overview.SetContent(fmt.Sprintf("Failed to render stats: %v", err))
		return
	}
	m.overview.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	for id, t := range m.tables {
		if id == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: since=%s  last=%s  sessions=%d  items=%d", since, last, len(m.report.Sessions), len(m.items))
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabHelpers:
		if len(m.report.Helpers) == 0 {
			return "No helpers bought yet."
		}
		return tableMutedStyle.Render(m.tables[tabHelpers].View())
	case tabItems:
		if len(m.items) == 0 {
			return "No items found."
		}
		return tableMutedStyle.Render(m.tables[tabItems].View())
	default:
		return m.overview.View()
	}
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func helperColumns() []table.Column {
	return []table.Column{
		{Title: "Helper", Width: 12},
		{Title: "Name", Width: 16},
		{Title: "Sessions", Width: 8},
		{Title: "Total", Width: 10},
		{Title: "Max", Width: 8},
	}
}

func helperRows(aggs []model.HelperAggregate, catalog *idle.Catalog) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		name := "-"
		if catalog != nil {
			if h, ok := catalog.Lookup(agg.HelperID); ok {
				name = h.Name
			}
		}
		rows = append(rows, table.Row{
			agg.HelperID,
			name,
			strconv.Itoa(agg.Sessions),
			humanize.Comma(agg.Total),
			humanize.Comma(agg.Max),
		})
	}
	return rows
}

func itemColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Category", Width: 14},
		{Title: "Found", Width: 14},
		{Title: "Location", Width: 16},
		{Title: "Description", Width: 24},
		{Title: "Photo", Width: 26},
	}
}

func itemRows(items []model.FoundItem, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		photo := "-"
		if item.ImagePath != "" {
			photo = filepath.Base(item.ImagePath)
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(item.ID, 10),
			item.Category,
			humanize.RelTime(item.FoundAt, now, "ago", "from now"),
			orDash(item.Location),
			orDash(item.Description),
			photo,
		})
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
