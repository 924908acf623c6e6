package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiread/internal/cue"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/playback"
)

// PlainOptions configures RunPlain.
type PlainOptions struct {
	Settings model.Settings
	Cues     cue.Player
	// Inline rewrites a single line with carriage returns instead of printing one
	// word per line.
	Inline    bool
	OnSession func(playback.SessionSummary)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type lineRenderer struct {
	w      io.Writer
	inline bool
	last   int
	err    error
}

func (r *lineRenderer) Render(text string) {
	if r.err != nil {
		return
	}
	if !r.inline {
		_, r.err = fmt.Fprintln(r.w, text)
		return
	}
	width := runewidth.StringWidth(text)
	pad := strings.Repeat(" ", max(0, r.last-width))
	r.last = width
	_, r.err = fmt.Fprintf(r.w, "\r%s%s", text, pad)
}

func (r *lineRenderer) finish() {
	if r.inline && r.err == nil {
		_, r.err = fmt.Fprintln(r.w)
	}
}

// RunPlain presents words on w without a full-screen interface. It returns when
// the sequence has been shown or ctx is cancelled; a cancelled run is finished so
// its progress is still reported to OnSession.
func RunPlain(ctx context.Context, w io.Writer, words []string, opts PlainOptions) error {
	r := &lineRenderer{w: w, inline: opts.Inline}
	loop := playback.NewLoop()
	engine := playback.New(playback.Config{
		WPM:         opts.Settings.WPM,
		SmartPacing: opts.Settings.SmartPacing,
	}, r, opts.Cues, loop)
	if opts.OnSession != nil {
		engine.OnSession(opts.OnSession)
	}
	engine.Load(words)
	engine.Start()

	err := loop.Run(ctx, engine)
	if err != nil {
		engine.Finish()
	}
	r.finish()
	if err != nil {
		return err
	}
	if r.err != nil {
		return fmt.Errorf("failed to write output: %w", r.err)
	}
	return nil
}
