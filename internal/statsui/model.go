// Package statsui provides the Bubble Tea reading history browser.
package statsui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/stats"
	"github.com/verte-zerg/tuiread/internal/store"
)

const sinceLayout = "2006-01-02"

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Lister loads reading sessions.
type Lister interface {
	ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.ReadingSession, error)
}

var _ Lister = (*store.Store)(nil)

// Model implements the Bubble Tea history UI.
type Model struct {
	store  Lister
	filter model.HistoryFilter

	sessions []model.ReadingSession
	errMsg   string

	table table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a history UI model.
func NewModel(st Lister, filter model.HistoryFilter) *Model {
	m := &Model{
		store:  st,
		filter: filter,
		table:  newSessionTable(),
	}
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "/":
			return m.startFilter()
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	parts := []string{m.renderHeader()}
	if m.filterMode {
		parts = append(parts, m.renderFilterForm())
	} else {
		parts = append(parts, m.renderCards(), m.renderTable())
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newSessionTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Ended", Width: 16},
			{Title: "Document", Width: 24},
			{Title: "Words", Width: 13},
			{Title: "WPM", Width: 5},
			{Title: "Effective", Width: 9},
			{Title: "Status", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func sessionRows(sessions []model.ReadingSession) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	// Newest first reads better in an interactive list.
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		status := "stopped"
		if s.Completed {
			status = "finished"
		}
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			truncate.StringWithTail(filepath.Base(s.Document), 24, "…"),
			fmt.Sprintf("%s/%s", humanize.Comma(int64(s.WordsShown)), humanize.Comma(int64(s.TotalWords))),
			strconv.Itoa(s.WPM),
			fmt.Sprintf("%.1f", stats.SessionMetrics(s.WordsShown, s.DurationMs)),
			status,
		})
	}
	return rows
}

func (m *Model) refresh() {
	sessions, err := m.store.ListSessions(context.Background(), m.filter)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load history: %v", err)
		m.sessions = nil
		m.table.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.sessions = sessions
	m.table.SetRows(sessionRows(sessions))
	m.table.GotoTop()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetWidth(m.width)
	// header, cards (3 lines + border) and footer
	m.table.SetHeight(max(3, m.height-8))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) renderHeader() string {
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format(sinceLayout)
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	line := fmt.Sprintf("Reading history  since=%s  last=%s", since, last)
	return headerStyle.Render(truncate.StringWithTail(line, uint(max(m.width, 1)), "…"))
}

func (m *Model) renderCards() string {
	if len(m.sessions) == 0 {
		return "No reading sessions found."
	}
	var (
		words int
		total time.Duration
		sum   float64
	)
	for _, s := range m.sessions {
		words += s.WordsShown
		total += time.Duration(s.DurationMs) * time.Millisecond
		sum += stats.SessionMetrics(s.WordsShown, s.DurationMs)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Sessions", strconv.Itoa(len(m.sessions))),
		metricCard("Words read", humanize.Comma(int64(words))),
		metricCard("Reading time", total.Round(time.Second).String()),
		metricCard("Avg effective WPM", fmt.Sprintf("%.1f", sum/float64(len(m.sessions)))),
	)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderTable() string {
	if len(m.sessions) == 0 {
		return ""
	}
	return tableMutedStyle.Render(m.table.View())
}

func (m *Model) renderFooter() string {
	help := "Scroll: up/down/pgup/pgdn  Filter: /  Quit: q"
	if m.filterMode {
		help = "tab/shift+tab: next field  enter: apply  esc: cancel"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	if m.filter.Since != nil {
		m.filterInputs[0].SetValue(m.filter.Since.Format(sinceLayout))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.filter.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.filter.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		filter, err := ParseFilter(m.filterInputs[0].Value(), m.filterInputs[1].Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filter = filter
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	idx = (idx + count) % count
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == idx {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// ParseFilter builds a history filter from user input. Empty values mean no limit.
func ParseFilter(sinceInput, lastInput string) (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if s := strings.TrimSpace(sinceInput); s != "" {
		parsed, err := time.ParseInLocation(sinceLayout, s, time.Local)
		if err != nil {
			return model.HistoryFilter{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		filter.Since = &parsed
	}
	if s := strings.TrimSpace(lastInput); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			return model.HistoryFilter{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		filter.Last = parsed
	}
	return filter, nil
}
