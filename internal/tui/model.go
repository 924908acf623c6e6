// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/tuiread/internal/cue"
	"github.com/verte-zerg/tuiread/internal/document"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/playback"
)

const rateStep = 10

// Cues plays audio cues and owns the mute flag.
type Cues interface {
	cue.Player
	ToggleMuted() bool
	Muted() bool
}

// HistoryRecorder stores finished reading runs.
type HistoryRecorder interface {
	InsertSession(ctx context.Context, rs model.ReadingSession) (int64, error)
}

// Options configures a Model.
type Options struct {
	Settings model.Settings
	Cues     Cues
	Loader   *document.Loader
	// History is optional; nil disables recording.
	History HistoryRecorder
	Logger  *log.Logger
	// Path is imported on start when set.
	Path string
	// Watch reloads the current document when it changes on disk.
	Watch bool
}

type (
	tickMsg playback.Tick

	documentLoadedMsg struct {
		path   string
		doc    document.Document
		err    error
		reload bool
	}

	fileChangedMsg struct {
		watcher *document.Watcher
		err     error
	}

	historySavedMsg struct {
		err error
	}
)

// Model implements the Bubble Tea reading UI. It is the engine's Renderer and
// Scheduler: scheduled ticks are collected while handling a message and
// returned as tea.Tick commands.
type Model struct {
	engine  *playback.Engine
	cues    Cues
	loader  *document.Loader
	history HistoryRecorder
	logger  *log.Logger
	watch   bool

	keys     keyMap
	help     help.Model
	rate     textinput.Model
	bar      progress.Model
	picker   filepicker.Model
	picking  bool
	watcher  *document.Watcher
	initPath string

	display string
	docPath string
	hidden  bool
	width   int
	height  int
	pending []tea.Cmd
	now     func() time.Time
}

// NewModel constructs a reading TUI model.
func NewModel(opts Options) *Model {
	m := &Model{
		cues:     opts.Cues,
		loader:   opts.Loader,
		history:  opts.History,
		logger:   opts.Logger,
		watch:    opts.Watch,
		keys:     defaultKeyMap(),
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		initPath: opts.Path,
		now:      time.Now,
	}
	if m.cues == nil {
		m.cues = cue.NewMixer(cue.Silent{}, nil, nil)
	}
	if m.loader == nil {
		m.loader = document.NewLoader(document.DefaultCacheTTL)
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	m.engine = playback.New(playback.Config{
		WPM:         opts.Settings.WPM,
		SmartPacing: opts.Settings.SmartPacing,
	}, m, m.cues, m)
	m.engine.OnSession(m.recordSession)
	m.display = m.engine.Display()

	m.rate = textinput.New()
	m.rate.Prompt = "WPM "
	m.rate.CharLimit = 8
	m.rate.Width = 6
	m.syncRate()
	return m
}

// Render implements playback.Renderer.
func (m *Model) Render(text string) {
	m.display = text
}

// Schedule implements playback.Scheduler.
func (m *Model) Schedule(after time.Duration, t playback.Tick) {
	m.pending = append(m.pending, tickCmd(after, t))
}

func tickCmd(after time.Duration, t playback.Tick) tea.Cmd {
	if after <= 0 {
		return func() tea.Msg { return tickMsg(t) }
	}
	return tea.Tick(after, func(time.Time) tea.Msg { return tickMsg(t) })
}

// Engine exposes the playback engine.
func (m *Model) Engine() *playback.Engine {
	return m.engine
}

// Close releases the file watcher.
func (m *Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	err := m.watcher.Close()
	m.watcher = nil
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.initPath == "" {
		return nil
	}
	return m.loadCmd(m.initPath, false)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-4))
		m.help.Width = msg.Width
		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, nil
	case tickMsg:
		m.engine.Wake(playback.Tick(msg))
		return m, m.flush()
	case documentLoadedMsg:
		return m, m.handleLoaded(msg)
	case fileChangedMsg:
		return m, m.handleFileChanged(msg)
	case historySavedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to save reading session", "err", msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.cues.Play(cue.Keypress)

	if m.rate.Focused() {
		return m, m.updateRate(msg)
	}
	if m.picking {
		return m, m.updatePicker(msg)
	}

	var cmds []tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.engine.Toggle()
	case key.Matches(msg, m.keys.Import):
		cmds = append(cmds, m.openPicker())
	case key.Matches(msg, m.keys.Smart):
		m.engine.ToggleSmartPacing()
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.Mute):
		m.cues.ToggleMuted()
	case key.Matches(msg, m.keys.Hide):
		m.hidden = !m.hidden
	case key.Matches(msg, m.keys.Rate):
		cmds = append(cmds, m.rate.Focus())
	case key.Matches(msg, m.keys.Faster):
		m.engine.SetWPM(m.engine.WPM() + rateStep)
		m.syncRate()
	case key.Matches(msg, m.keys.Slower):
		m.engine.SetWPM(m.engine.WPM() - rateStep)
		m.syncRate()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, m.flush(cmds...)
}

// updateRate feeds keys to the WPM field. Enter, esc and tab leave the field and
// apply its value.
func (m *Model) updateRate(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyTab:
		m.commitRate()
		return nil
	}
	var cmd tea.Cmd
	m.rate, cmd = m.rate.Update(msg)
	return cmd
}

func (m *Model) commitRate() {
	m.rate.Blur()
	if _, ok := m.engine.SetRate(m.rate.Value()); !ok {
		m.logger.Debug("rejected rate", "input", m.rate.Value())
	}
	m.syncRate()
}

func (m *Model) syncRate() {
	m.rate.SetValue(strconv.Itoa(m.engine.WPM()))
}

func (m *Model) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = document.Extensions
	fp.ShowPermissions = false
	if m.docPath != "" {
		fp.CurrentDirectory = filepath.Dir(m.docPath)
	}
	m.picker = fp
	m.picking = true
	if m.width > 0 {
		m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m.picker.Init()
}

func (m *Model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Cancel) {
		m.picking = false
		return nil
	}
	if key.Matches(msg, m.picker.KeyMap.Up, m.picker.KeyMap.Down) {
		m.cues.Play(cue.Hover)
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return tea.Batch(cmd, m.loadCmd(path, false))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.display = (&document.UnsupportedTypeError{Ext: strings.ToLower(filepath.Ext(path))}).Error()
		m.picking = false
	}
	return cmd
}

func (m *Model) loadCmd(path string, reload bool) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		doc, err := loader.Load(path)
		return documentLoadedMsg{path: path, doc: doc, err: err, reload: reload}
	}
}

func (m *Model) handleLoaded(msg documentLoadedMsg) tea.Cmd {
	if msg.reload && msg.path != m.docPath {
		m.logger.Debug("dropped reload of replaced document", "path", msg.path)
		return m.flush()
	}
	if msg.err != nil {
		m.logger.Error("import failed", "err", msg.err)
		if errors.Is(msg.err, document.ErrUnsupported) {
			m.display = msg.err.Error()
		} else {
			m.display = fmt.Sprintf("Import failed: %v", msg.err)
		}
		return m.flush()
	}
	m.logger.Info("document loaded", "path", msg.doc.Path, "words", len(msg.doc.Words), "reload", msg.reload)
	m.logger.Debug("document cache", "entries", m.loader.Cached())
	m.docPath = msg.doc.Path
	m.engine.Load(msg.doc.Words)
	m.syncRate()
	if msg.reload || !m.watch {
		return m.flush()
	}
	return m.flush(m.startWatch(msg.doc.Path))
}

func (m *Model) startWatch(path string) tea.Cmd {
	if err := m.Close(); err != nil {
		m.logger.Debug("failed to close watcher", "err", err)
	}
	w, err := document.NewWatcher(path)
	if err != nil {
		m.logger.Warn("not watching document", "path", path, "err", err)
		return nil
	}
	m.watcher = w
	return waitForChange(w)
}

func waitForChange(w *document.Watcher) tea.Cmd {
	return func() tea.Msg {
		return fileChangedMsg{watcher: w, err: w.Next()}
	}
}

func (m *Model) handleFileChanged(msg fileChangedMsg) tea.Cmd {
	if msg.watcher != m.watcher {
		return nil
	}
	if msg.err != nil {
		if !errors.Is(msg.err, document.ErrWatcherClosed) {
			m.logger.Warn("stopped watching document", "err", msg.err)
		}
		return nil
	}
	m.logger.Debug("document changed", "path", msg.watcher.Path())
	return tea.Batch(m.loadCmd(msg.watcher.Path(), true), waitForChange(msg.watcher))
}

func (m *Model) recordSession(s playback.SessionSummary) {
	if m.history == nil {
		return
	}
	rs := s.Record(m.docPath)
	history := m.history
	m.pending = append(m.pending, func() tea.Msg {
		_, err := history.InsertSession(context.Background(), rs)
		return historySavedMsg{err: err}
	})
}

func (m *Model) flush(extra ...tea.Cmd) tea.Cmd {
	cmds := append(m.pending, extra...)
	m.pending = nil
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.picking {
		title := labelStyle.Render("Import a document (" + strings.Join(document.Extensions, " ") + ")  q cancel")
		return title + "\n\n" + m.picker.View()
	}
	word := renderWord(m.display, m.width)
	if m.width == 0 || m.height == 0 {
		return word
	}
	if m.hidden || m.height < 6 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, word)
	}
	footer := lipgloss.JoinVertical(lipgloss.Center,
		m.bar.ViewAs(m.engine.Progress()),
		footerStyle.Render(m.renderFooter()),
		m.rate.View(),
		m.help.View(m.keys),
	)
	bodyHeight := max(1, m.height-lipgloss.Height(footer))
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, word)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderFooter() string {
	parts := []string{
		stateLabel(m.engine.State()),
		fmt.Sprintf("%d WPM", m.engine.WPM()),
	}
	if m.engine.SmartPacing() {
		parts = append(parts, "smart pacing")
	}
	if m.cues.Muted() {
		parts = append(parts, "muted")
	}
	if n := m.engine.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%s/%s words",
			humanize.Comma(int64(m.engine.Cursor())), humanize.Comma(int64(n))))
		if rem := m.engine.Remaining(); rem > 0 && m.engine.State() != playback.Completed {
			now := m.now()
			parts = append(parts, humanize.RelTime(now, now.Add(rem), "left", "ago"))
		}
	}
	if m.docPath != "" {
		parts = append(parts, fitWord(filepath.Base(m.docPath), 32))
	}
	return strings.Join(parts, "  ·  ")
}

func stateLabel(s playback.State) string {
	switch s {
	case playback.Active:
		return "Reading"
	case playback.Completed:
		return "Finished"
	default:
		return "Paused"
	}
}
