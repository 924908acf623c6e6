package stats

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/store"
)

func TestSessionMetrics(t *testing.T) {
	cases := []struct {
		shown int
		ms    int64
		want  float64
	}{
		{120, 60000, 120},
		{50, 30000, 100},
		{10, 0, 0},
		{0, 1000, 0},
	}
	for _, tc := range cases {
		if got := SessionMetrics(tc.shown, tc.ms); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("SessionMetrics(%d, %d) = %v, want %v", tc.shown, tc.ms, got, tc.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if got := MovingAverage([]float64{1, 5}, 1); got[1] != 5 {
		t.Fatalf("window 1 should copy values, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("flat sparkline %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (Report{}).Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No reading sessions found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestBuildReportAndRender(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "tuiread.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Hour)
		end := start.Add(30 * time.Second)
		_, err := st.InsertSession(ctx, model.ReadingSession{
			StartedAt:   start,
			EndedAt:     end,
			Document:    "/books/novel.txt",
			TotalWords:  1200,
			WordsShown:  100 * (i + 1),
			WPM:         300,
			SmartPacing: i == 2,
			Completed:   i == 2,
			DurationMs:  end.Sub(start).Milliseconds(),
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.HistoryFilter{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].WordsShown != 200 {
		t.Fatalf("expected most recent sessions, got %+v", report.Sessions)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Sessions: 2 (1 finished)",
		"Words read: 500",
		"Reading time: 1:00",
		"Avg effective WPM: 500.00",
		"Best effective WPM: 600.00",
		"Trend: [",
		"novel.txt",
		"200/1,200",
		"finished",
		"stopped",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Fatalf("formatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
