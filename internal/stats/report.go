package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/store"
)

// Report contains the sessions selected for history output.
type Report struct {
	Filter   model.HistoryFilter
	Sessions []model.ReadingSession
}

// BuildReport loads sessions for the filter.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	sessions, err := st.ListSessions(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	return Report{Filter: filter, Sessions: sessions}, nil
}

// Render prints the summary followed by the history table.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	return RenderHistory(w, r.Sessions)
}
