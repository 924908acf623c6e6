// Package model defines shared data structures.
package model

import "time"

// Settings defines reader settings after config, env and flags are merged.
type Settings struct {
	WPM         int
	SmartPacing bool
	Muted       bool
	CuesEnabled bool
	CuesDir     string
	Volume      float64
	History     bool
	Plain       bool
}

// HistoryFilter defines filters for history output.
type HistoryFilter struct {
	Since *time.Time
	// Last keeps only the most recent N sessions when positive.
	Last int
}

// ReadingSession captures one run of the reader from start until it stopped or
// reached the end of the document.
type ReadingSession struct {
	ID          int64
	StartedAt   time.Time
	EndedAt     time.Time
	Document    string
	TotalWords  int
	WordsShown  int
	WPM         int
	SmartPacing bool
	Completed   bool
	DurationMs  int64
}
