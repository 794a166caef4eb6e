// Package tui provides the Bubble Tea idle game interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/verte-zerg/fundus/internal/idle"
	"github.com/verte-zerg/fundus/internal/model"
)

// SessionSaver persists finished game sessions.
type SessionSaver interface {
	InsertSession(ctx context.Context, gs model.GameSession) error
}

type tickMsg time.Time

// Model implements the Bubble Tea idle game UI.
type Model struct {
	config  model.Config
	session *idle.Session
	saver   SessionSaver
	logger  *zap.Logger

	keys keyMap
	help help.Model

	width  int
	height int

	status    string
	statusErr bool
	finished  bool
	saved     *model.GameSession
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	balanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	affordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB77E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
)

const minPanelWidth = 36

// NewModel constructs an idle game model. saver may be nil when sessions are not stored.
func NewModel(cfg model.Config, session *idle.Session, saver SessionSaver, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		config:  cfg,
		session: session,
		saver:   saver,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.finished {
			return m, nil
		}
		m.session.Tick()
		return m, m.tick()
	case tea.KeyMsg:
		if m.finished {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.finish()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Click):
			earned := m.session.Click()
			m.setStatus(fmt.Sprintf("+%s credits", humanize.Comma(earned)), false)
		case key.Matches(msg, m.keys.Buy):
			m.buy(helperIndex(msg))
		case key.Matches(msg, m.keys.Upgrade):
			m.upgrade()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return ""
	}
	panel := panelStyle.Render(m.renderPanel())
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return panel + "\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, panel)
	footerLines := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerLines
}

// Saved returns the stored summary after the game ended, or nil.
func (m *Model) Saved() *model.GameSession {
	return m.saved
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.config.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) buy(idx int) {
	helpers := m.session.Catalog().Helpers()
	if idx < 0 || idx >= len(helpers) {
		m.setStatus(fmt.Sprintf("no helper on key %d", idx+1), true)
		return
	}
	h := helpers[idx]
	res, err := m.session.Purchase(h.ID)
	if err != nil {
		m.setStatus(describeError(h.Name, err), true)
		m.logger.Debug("purchase rejected", zap.String("helper", h.ID), zap.Error(err))
		return
	}
	m.setStatus(fmt.Sprintf("Hired %s #%d for %s", h.Name, res.Count, humanize.Comma(res.Cost)), false)
	m.logger.Debug("helper purchased",
		zap.String("helper", h.ID),
		zap.Int64("cost", res.Cost),
		zap.Int64("count", res.Count),
	)
}

func (m *Model) upgrade() {
	res, err := m.session.UpgradeClickPower()
	if err != nil {
		m.setStatus(describeError("Click upgrade", err), true)
		m.logger.Debug("upgrade rejected", zap.Error(err))
		return
	}
	m.setStatus(fmt.Sprintf("Click power is now %d", res.ClickPower), false)
	m.logger.Debug("click power upgraded", zap.Int64("cost", res.Cost), zap.Int64("click_power", res.ClickPower))
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) finish() {
	m.finished = true
	summary := m.session.End()
	fields := []zap.Field{
		zap.String("session", summary.ID),
		zap.Int64("final_balance", summary.FinalBalance),
		zap.Int64("clicks", summary.Clicks),
		zap.Int64("duration_ms", summary.DurationMs),
	}
	if !m.config.Save || m.saver == nil {
		m.logger.Info("session ended without saving", fields...)
		return
	}
	if summary.Clicks == 0 {
		m.logger.Info("session ended without activity", fields...)
		return
	}
	if err := m.saver.InsertSession(context.Background(), summary); err != nil {
		m.logger.Error("failed to save session", append(fields, zap.Error(err))...)
		return
	}
	m.saved = &summary
	m.logger.Info("session saved", fields...)
}

func (m *Model) renderPanel() string {
	p := m.session.Progress()
	catalog := m.session.Catalog()
	lines := []string{
		titleStyle.Render("Fundbüro"),
		"",
		balanceStyle.Render(fmt.Sprintf("%s credits", humanize.Comma(p.Balance))),
		mutedStyle.Render(fmt.Sprintf("%s/s passive · %s per click", humanize.Comma(m.session.Income()), humanize.Comma(p.ClickPower))),
		"",
	}
	lines = append(lines, renderHelperRows(helperRows(p, catalog), minPanelWidth)...)
	upgradeCost := idle.NextUpgradeCost(p, catalog)
	upgradeLine := fmt.Sprintf("[u] Click power %d → %d  %s", p.ClickPower, p.ClickPower+1, humanize.Comma(upgradeCost))
	lines = append(lines, "", affordability(upgradeLine, p.Balance >= upgradeCost))
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		lines = append(lines, "", style.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	t := m.session.Tally()
	segments := []string{
		fmt.Sprintf("Clicks %s", humanize.Comma(t.Clicks)),
		fmt.Sprintf("Passive %s", humanize.Comma(t.PassiveEarned)),
		fmt.Sprintf("Spent %s", humanize.Comma(t.Spent)),
	}
	stats := footerStyle.Render(strings.Join(segments, "  "))
	return stats + "\n" + m.help.View(m.keys)
}

func describeError(item string, err error) string {
	var funds *idle.InsufficientFundsError
	switch {
	case errors.As(err, &funds):
		return fmt.Sprintf("%s needs %s more credits", item, humanize.Comma(funds.Missing()))
	case errors.Is(err, idle.ErrUnknownHelper):
		return fmt.Sprintf("%s is not for hire", item)
	default:
		return err.Error()
	}
}

func helperIndex(msg tea.KeyMsg) int {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return -1
	}
	return int(s[0] - '1')
}
