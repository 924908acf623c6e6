package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "tuiread.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func session(doc string, ended time.Time, shown int) model.ReadingSession {
	return model.ReadingSession{
		StartedAt:   ended.Add(-time.Minute),
		EndedAt:     ended,
		Document:    doc,
		TotalWords:  100,
		WordsShown:  shown,
		WPM:         200,
		SmartPacing: shown%2 == 0,
		Completed:   shown == 100,
		DurationMs:  60000,
	}
}

func TestInsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, shown := range []int{10, 100, 55} {
		id, err := s.InsertSession(ctx, session("book.txt", base.Add(time.Duration(i)*time.Hour), shown))
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if id != int64(i+1) {
			t.Fatalf("unexpected id %d", id)
		}
	}

	all, err := s.ListSessions(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if all[0].WordsShown != 10 || all[2].WordsShown != 55 {
		t.Fatalf("expected oldest first, got %+v", all)
	}
	if !all[1].Completed || all[0].Completed {
		t.Fatalf("completed flag not round-tripped")
	}
	if !all[0].SmartPacing || all[2].SmartPacing {
		t.Fatalf("smart pacing flag not round-tripped")
	}
	if !all[0].EndedAt.Equal(base) || all[0].Document != "book.txt" {
		t.Fatalf("unexpected first session %+v", all[0])
	}
}

func TestListFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := s.InsertSession(ctx, session("doc.md", base.AddDate(0, 0, i), i+1)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	last, err := s.ListSessions(ctx, model.HistoryFilter{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].WordsShown != 4 || last[1].WordsShown != 5 {
		t.Fatalf("unexpected last sessions %+v", last)
	}

	since := base.AddDate(0, 0, 3)
	recent, err := s.ListSessions(ctx, model.HistoryFilter{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 || recent[0].WordsShown != 4 {
		t.Fatalf("unexpected since sessions %+v", recent)
	}
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.ListSessions(context.Background(), model.HistoryFilter{Last: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no sessions, got %d", len(got))
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuiread.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.InsertSession(context.Background(), session("a.txt", time.Now(), 3)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.ListSessions(context.Background(), model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 session after reopen, got %d", len(got))
	}
}
