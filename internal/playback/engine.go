package playback

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/tuiread/internal/cue"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/pacing"
)

// Display values shown outside of word presentation.
const (
	InitialDisplay = "Import a file to begin"
	ResetDisplay   = "Static Reader"
	EndDisplay     = "- THE END -"
)

// Renderer shows the current word or marker.
type Renderer interface {
	Render(text string)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(string)

// Render implements Renderer.
func (f RenderFunc) Render(text string) { f(text) }

// Tick is a scheduled wake-up. Session ties it to the run that scheduled it.
type Tick struct {
	Session uint64
}

// Scheduler delivers a Tick back to Engine.Wake after the given delay.
// Schedule must not block and must not call Wake synchronously.
type Scheduler interface {
	Schedule(after time.Duration, t Tick)
}

// Config holds initial rate settings.
type Config struct {
	WPM         int
	SmartPacing bool
}

// SessionSummary describes one run from Start until it stopped or finished.
type SessionSummary struct {
	Words       int
	Shown       int
	WPM         int
	SmartPacing bool
	StartedAt   time.Time
	EndedAt     time.Time
	Completed   bool
}

// Record converts the summary into a history row for document.
func (s SessionSummary) Record(document string) model.ReadingSession {
	return model.ReadingSession{
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		Document:    document,
		TotalWords:  s.Words,
		WordsShown:  s.Shown,
		WPM:         s.WPM,
		SmartPacing: s.SmartPacing,
		Completed:   s.Completed,
		DurationMs:  s.EndedAt.Sub(s.StartedAt).Milliseconds(),
	}
}

// Engine owns the word sequence and the presentation cursor.
//
// Engine is not safe for concurrent use. All calls, including Wake, must come from one
// goroutine (the UI event loop or a Loop).
type Engine struct {
	words    []string
	cursor   int
	wpm      int
	smart    bool
	state    State
	session  uint64
	awaiting bool
	display  string

	renderer  Renderer
	cues      cue.Player
	scheduler Scheduler
	onSession func(SessionSummary)
	now       func() time.Time

	runOpen    bool
	runShown   int
	runStarted time.Time
}

// New constructs an Engine with an empty word sequence.
func New(cfg Config, r Renderer, p cue.Player, s Scheduler) *Engine {
	if r == nil {
		r = RenderFunc(func(string) {})
	}
	if p == nil {
		p = cue.Nop
	}
	wpm := cfg.WPM
	if wpm == 0 {
		wpm = pacing.DefaultWPM
	}
	return &Engine{
		wpm:       pacing.ClampWPM(wpm),
		smart:     cfg.SmartPacing,
		display:   InitialDisplay,
		renderer:  r,
		cues:      p,
		scheduler: s,
		now:       time.Now,
	}
}

// OnSession registers a hook called when a run that showed at least one word ends.
func (e *Engine) OnSession(fn func(SessionSummary)) {
	e.onSession = fn
}

// Load replaces the word sequence and returns to Idle at the first word.
// Any pending wake-up from the previous sequence is discarded.
func (e *Engine) Load(words []string) {
	e.endRun(false)
	e.words = append([]string(nil), words...)
	e.cursor = 0
	e.state = Idle
	e.awaiting = false
	e.session++
	e.setDisplay(fmt.Sprintf("Loaded %s words", humanize.Comma(int64(len(e.words)))))
}

// Start begins presentation from the current cursor. It is a no-op when nothing is
// loaded or a run is already active. The first word appears on the first wake-up.
func (e *Engine) Start() {
	if len(e.words) == 0 || !e.state.CanStart() {
		return
	}
	e.cues.Play(cue.Start)
	e.state = Active
	e.awaiting = false
	e.session++
	if !e.runOpen {
		// A run stopped on its last word stays open until it completes.
		e.runOpen = true
		e.runShown = 0
		e.runStarted = e.now()
	}
	e.schedule(0)
}

// Stop ends the active run and keeps the cursor so Start resumes from it.
// A word already on screen still finishes its delay before the engine settles.
func (e *Engine) Stop() {
	e.cues.Play(cue.Stop)
	if e.state == Active {
		e.state = Idle
	}
	if e.awaiting && e.cursor == len(e.words) {
		// The pending wake-up completes the run and records it.
		return
	}
	e.endRun(false)
}

// Finish stops playback for good. Pending wake-ups are discarded and an open run
// is reported as stopped.
func (e *Engine) Finish() {
	e.Stop()
	e.session++
	e.awaiting = false
	e.endRun(false)
}

// Toggle stops an active run or starts an idle one.
func (e *Engine) Toggle() {
	if e.state == Active {
		e.Stop()
		return
	}
	e.Start()
}

// Reset stops playback and rewinds to the first word. It plays the start cue.
func (e *Engine) Reset() {
	e.Stop()
	e.endRun(false)
	e.state = Idle
	e.cursor = 0
	e.awaiting = false
	e.session++
	e.setDisplay(ResetDisplay)
	e.cues.Play(cue.Start)
}

// SetSmartPacing enables or disables length and punctuation adjustments.
func (e *Engine) SetSmartPacing(enabled bool) {
	e.smart = enabled
}

// ToggleSmartPacing flips smart pacing and returns the new value.
func (e *Engine) ToggleSmartPacing() bool {
	e.smart = !e.smart
	return e.smart
}

// SetRate applies a rate typed by the user. Invalid input leaves the rate unchanged.
// It returns the rate in effect and whether the input was accepted.
func (e *Engine) SetRate(raw string) (int, bool) {
	wpm, ok := pacing.ParseWPM(raw, e.wpm)
	e.wpm = wpm
	return e.wpm, ok
}

// SetWPM clamps and applies a numeric rate and returns the rate in effect.
func (e *Engine) SetWPM(wpm int) int {
	e.wpm = pacing.ClampWPM(wpm)
	return e.wpm
}

// Wake runs one step of the presentation loop.
func (e *Engine) Wake(t Tick) {
	if t.Session != e.session {
		return
	}
	if e.awaiting {
		e.awaiting = false
		if e.cursor == len(e.words) {
			e.complete()
			return
		}
	}
	if e.state != Active {
		return
	}
	e.reveal()
}

func (e *Engine) reveal() {
	if e.cursor < 0 || e.cursor >= len(e.words) {
		e.complete()
		return
	}
	e.cues.Play(cue.WordAppear)
	word := e.words[e.cursor]
	e.setDisplay(word)
	delay := pacing.ComputeDelay(word, pacing.BaseDelay(e.wpm), e.smart)
	e.cursor++
	e.runShown++
	e.awaiting = true
	e.schedule(delay)
}

func (e *Engine) complete() {
	e.cues.Play(cue.Complete)
	e.state = Completed
	e.cursor = 0
	e.awaiting = false
	e.setDisplay(EndDisplay)
	e.endRun(true)
}

func (e *Engine) schedule(after time.Duration) {
	if e.scheduler == nil {
		return
	}
	e.scheduler.Schedule(after, Tick{Session: e.session})
}

func (e *Engine) setDisplay(text string) {
	e.display = text
	e.renderer.Render(text)
}

func (e *Engine) endRun(completed bool) {
	if !e.runOpen {
		return
	}
	e.runOpen = false
	if e.runShown == 0 || e.onSession == nil {
		return
	}
	e.onSession(SessionSummary{
		Words:       len(e.words),
		Shown:       e.runShown,
		WPM:         e.wpm,
		SmartPacing: e.smart,
		StartedAt:   e.runStarted,
		EndedAt:     e.now(),
		Completed:   completed,
	})
}

// State returns the playback state.
func (e *Engine) State() State { return e.state }

// Cursor returns the index of the next word to show.
func (e *Engine) Cursor() int { return e.cursor }

// Len returns the number of loaded words.
func (e *Engine) Len() int { return len(e.words) }

// WPM returns the current rate.
func (e *Engine) WPM() int { return e.wpm }

// SmartPacing reports whether smart pacing is enabled.
func (e *Engine) SmartPacing() bool { return e.smart }

// Display returns the current word or marker.
func (e *Engine) Display() string { return e.display }

// Progress returns the fraction of the sequence already shown, in [0, 1].
func (e *Engine) Progress() float64 {
	if len(e.words) == 0 {
		return 0
	}
	return float64(e.cursor) / float64(len(e.words))
}

// Remaining estimates the time needed to show the rest of the sequence at the
// current settings.
func (e *Engine) Remaining() time.Duration {
	base := pacing.BaseDelay(e.wpm)
	var total time.Duration
	for _, word := range e.words[min(e.cursor, len(e.words)):] {
		total += pacing.ComputeDelay(word, base, e.smart)
	}
	return total
}
