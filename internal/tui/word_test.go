package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuiread/internal/model"
)

func TestFitWord(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"incomprehensibilities", 8, "incompr…"},
		{"word", 0, "word"},
		{"word", 1, "w"},
	}
	for _, tc := range cases {
		if got := fitWord(tc.in, tc.width); got != tc.want {
			t.Fatalf("fitWord(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestFitWordWide(t *testing.T) {
	got := fitWord("日本語の文章", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Fatalf("fitted word %q is %d cells wide", got, w)
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, _ := newTestModel(t, Options{Settings: model.Settings{WPM: 60, SmartPacing: true}})
	m.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	words := make([]string, 1500)
	for i := range words {
		words[i] = "word"
	}
	m.engine.Load(words)
	m.cues.ToggleMuted()
	m.docPath = "/tmp/novel.txt"

	out := m.renderFooter()
	if !containsAll(out, []string{"Paused", "60 WPM", "smart pacing", "muted", "0/1,500 words", "minutes left", "novel.txt"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterEmpty(t *testing.T) {
	m, _ := newTestModel(t, Options{Settings: model.Settings{WPM: 250}})
	out := m.renderFooter()
	if out != "Paused  ·  250 WPM" {
		t.Fatalf("unexpected footer %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
