// Package stats contains reading history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/verte-zerg/tuiread/internal/model"
)

const (
	sparkChars  = " .:-=+*#%@"
	docColWidth = 28
	dateLayout  = "2006-01-02 15:04"
)

// SessionMetrics returns the effective reading speed of a run in words per
// minute. Pauses are not tracked, so a run stopped and left idle still counts
// only the time it was active.
func SessionMetrics(wordsShown int, durationMs int64) float64 {
	if durationMs <= 0 || wordsShown <= 0 {
		return 0
	}
	minutes := float64(durationMs) / 60000.0
	return float64(wordsShown) / minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderHistory prints one aligned row per session.
func RenderHistory(w io.Writer, sessions []model.ReadingSession) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No reading sessions found.")
		return err
	}
	headers := []string{"Ended", "Document", "Words", "WPM", "Effective", "Smart", "Status", "Time"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.EndedAt.Local().Format(dateLayout),
			truncate.StringWithTail(filepath.Base(s.Document), docColWidth, "…"),
			fmt.Sprintf("%s/%s", humanize.Comma(int64(s.WordsShown)), humanize.Comma(int64(s.TotalWords))),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%.1f", SessionMetrics(s.WordsShown, s.DurationMs)),
			yesNo(s.SmartPacing),
			status(s),
			formatDuration(time.Duration(s.DurationMs) * time.Millisecond),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSummary prints totals and the effective speed trend for sessions.
func RenderSummary(w io.Writer, sessions []model.ReadingSession) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No reading sessions found.")
		return err
	}
	var (
		words     int
		total     time.Duration
		completed int
		best      float64
		sumWPM    float64
	)
	speeds := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm := SessionMetrics(s.WordsShown, s.DurationMs)
		speeds[i] = wpm
		sumWPM += wpm
		best = math.Max(best, wpm)
		words += s.WordsShown
		total += time.Duration(s.DurationMs) * time.Millisecond
		if s.Completed {
			completed++
		}
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d finished)", len(sessions), completed),
		fmt.Sprintf("Words read: %s", humanize.Comma(int64(words))),
		fmt.Sprintf("Reading time: %s", formatDuration(total)),
		fmt.Sprintf("Avg effective WPM: %.2f", sumWPM/float64(len(sessions))),
		fmt.Sprintf("Best effective WPM: %.2f", best),
	}
	if len(speeds) > 1 {
		lines = append(lines, fmt.Sprintf("Trend: [%s]", Sparkline(MovingAverage(speeds, 3))))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func status(s model.ReadingSession) string {
	if s.Completed {
		return "finished"
	}
	return "stopped"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
