package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/playback"
)

func TestRunPlainLines(t *testing.T) {
	var buf bytes.Buffer
	var summaries []playback.SessionSummary
	err := RunPlain(context.Background(), &buf, []string{"one", "two", "three"}, PlainOptions{
		Settings:  model.Settings{WPM: 1000},
		OnSession: func(s playback.SessionSummary) { summaries = append(summaries, s) },
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Loaded 3 words\none\ntwo\nthree\n- THE END -\n"
	if buf.String() != want {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if len(summaries) != 1 || !summaries[0].Completed || summaries[0].Shown != 3 {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
}

func TestRunPlainInlinePadsShorterWords(t *testing.T) {
	var buf bytes.Buffer
	err := RunPlain(context.Background(), &buf, []string{"longer", "ab"}, PlainOptions{
		Settings: model.Settings{WPM: 1000},
		Inline:   true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\rlonger") || !strings.Contains(out, "\rab    ") {
		t.Fatalf("unexpected inline output %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newline")
	}
}

func TestRunPlainCancel(t *testing.T) {
	var buf bytes.Buffer
	var summaries []playback.SessionSummary
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := RunPlain(ctx, &buf, []string{"slow", "words"}, PlainOptions{
		Settings:  model.Settings{WPM: 1},
		OnSession: func(s playback.SessionSummary) { summaries = append(summaries, s) },
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !strings.Contains(buf.String(), "slow") || strings.Contains(buf.String(), "\nwords\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if len(summaries) != 1 || summaries[0].Completed || summaries[0].Shown != 1 {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
}

func TestRunPlainCancelOnLastWordRecordsRun(t *testing.T) {
	var buf bytes.Buffer
	var summaries []playback.SessionSummary
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := RunPlain(ctx, &buf, []string{"only"}, PlainOptions{
		Settings:  model.Settings{WPM: 1},
		OnSession: func(s playback.SessionSummary) { summaries = append(summaries, s) },
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if len(summaries) != 1 || summaries[0].Completed || summaries[0].Shown != 1 {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
}
