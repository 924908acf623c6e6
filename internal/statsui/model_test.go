package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiread/internal/model"
)

type fakeLister struct {
	sessions []model.ReadingSession
	err      error
	filters  []model.HistoryFilter
}

func (f *fakeLister) ListSessions(_ context.Context, filter model.HistoryFilter) ([]model.ReadingSession, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if filter.Last > 0 && len(f.sessions) > filter.Last {
		return f.sessions[len(f.sessions)-filter.Last:], nil
	}
	return f.sessions, nil
}

func sampleSessions() []model.ReadingSession {
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return []model.ReadingSession{
		{EndedAt: base, Document: "/a/first.txt", TotalWords: 50, WordsShown: 50, WPM: 200, Completed: true, DurationMs: 15000},
		{EndedAt: base.Add(time.Hour), Document: "/a/second.md", TotalWords: 900, WordsShown: 120, WPM: 300, DurationMs: 24000},
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" 2025-01-02 ", "5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Since == nil || f.Since.Format(sinceLayout) != "2025-01-02" || f.Last != 5 {
		t.Fatalf("unexpected filter %+v", f)
	}
	if f, err := ParseFilter("", ""); err != nil || f.Since != nil || f.Last != 0 {
		t.Fatalf("empty input should clear filter, got %+v %v", f, err)
	}
	if _, err := ParseFilter("yesterday", ""); err == nil {
		t.Fatalf("expected since error")
	}
	if _, err := ParseFilter("", "-1"); err == nil {
		t.Fatalf("expected last error")
	}
}

func TestSessionRowsNewestFirst(t *testing.T) {
	rows := sessionRows(sampleSessions())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "second.md" || rows[0][2] != "120/900" || rows[0][5] != "stopped" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[1][4] != "200.0" || rows[1][5] != "finished" {
		t.Fatalf("unexpected second row %v", rows[1])
	}
}

func TestViewShowsCards(t *testing.T) {
	m := NewModel(&fakeLister{sessions: sampleSessions()}, model.HistoryFilter{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	out := m.View()
	for _, want := range []string{"Sessions", "Words read", "170", "second.md", "Quit: q"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestFilterFlowReloads(t *testing.T) {
	lister := &fakeLister{sessions: sampleSessions()}
	m := NewModel(lister, model.HistoryFilter{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to close")
	}
	if m.filter.Last != 1 {
		t.Fatalf("expected last=1, got %+v", m.filter)
	}
	if len(lister.filters) != 2 || len(m.sessions) != 1 {
		t.Fatalf("expected reload with one session, got %d calls, %d sessions", len(lister.filters), len(m.sessions))
	}
}

func TestFilterErrorKeepsForm(t *testing.T) {
	m := NewModel(&fakeLister{}, model.HistoryFilter{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected filter error, mode=%v err=%q", m.filterMode, m.filterError)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode {
		t.Fatalf("esc should cancel filter")
	}
}

func TestLoadErrorShown(t *testing.T) {
	m := NewModel(&fakeLister{err: errors.New("disk gone")}, model.HistoryFilter{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "disk gone") {
		t.Fatalf("expected error in view")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&fakeLister{}, model.HistoryFilter{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
