// Package pacing computes per-word display durations.
package pacing

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Rate bounds in words per minute.
const (
	MinWPM     = 1
	MaxWPM     = 1000
	DefaultWPM = 100
)

// Smart pacing tuning.
const (
	AvgWordLen       = 4.5
	LengthWeight     = 0.3
	MinFactor        = 0.7
	SoftPauseFactor  = 1.225
	FullPauseFactor  = 1.375
	softPunctuation  = ",;:\"')]}"
	terminalPunctSet = ".!?"
)

// BaseDelay returns the unadjusted delay for one word at the given rate.
// The rate is clamped first, so the result is always positive.
func BaseDelay(wpm int) time.Duration {
	return time.Minute / time.Duration(ClampWPM(wpm))
}

// ClampWPM bounds a rate to [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	if wpm < MinWPM {
		return MinWPM
	}
	if wpm > MaxWPM {
		return MaxWPM
	}
	return wpm
}

// ParseWPM parses a rate typed by the user. Only a non-negative integer literal of
// ASCII digits is accepted, with no surrounding whitespace; anything else returns
// previous and false. Accepted values are clamped.
func ParseWPM(raw string, previous int) (int, bool) {
	if raw == "" {
		return previous, false
	}
	n := 0
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch < '0' || ch > '9' {
			return previous, false
		}
		if n > MaxWPM {
			// Already above the bound; keep consuming digits to validate the literal.
			continue
		}
		n = n*10 + int(ch-'0')
	}
	return ClampWPM(n), true
}

// ComputeDelay returns how long word stays on screen. With smart pacing disabled the
// base delay is returned unchanged.
func ComputeDelay(word string, base time.Duration, smart bool) time.Duration {
	if !smart {
		return base
	}
	return time.Duration(float64(base) * LengthFactor(word) * PunctuationFactor(word))
}

// LengthFactor scales longer words up and shorter words down, never below MinFactor.
func LengthFactor(word string) float64 {
	n := float64(utf8.RuneCountInString(word))
	factor := 1.0 + ((n-AvgWordLen)/AvgWordLen)*LengthWeight
	if factor < MinFactor {
		return MinFactor
	}
	return factor
}

// PunctuationFactor inspects only the trailing character. Soft punctuation wins over
// terminal punctuation; the two never stack.
func PunctuationFactor(word string) float64 {
	last, size := utf8.DecodeLastRuneInString(word)
	if size == 0 {
		return 1.0
	}
	if strings.ContainsRune(softPunctuation, last) {
		return SoftPauseFactor
	}
	if strings.ContainsRune(terminalPunctSet, last) {
		return FullPauseFactor
	}
	return 1.0
}
