package cue

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Backend turns PCM clips into sound. Play must not wait for the clip to finish.
type Backend interface {
	Play(clip *Clip) error
	Close() error
}

// Silent is a Backend that discards every clip.
type Silent struct{}

// Play implements Backend.
func (Silent) Play(*Clip) error { return nil }

// Close implements Backend.
func (Silent) Close() error { return nil }

// Mixer maps cue kinds to clips and owns the process-wide mute flag.
type Mixer struct {
	backend Backend
	clips   map[Kind]*Clip
	muted   atomic.Bool
	logger  *log.Logger
}

// NewMixer returns a Mixer playing clips through backend. A nil backend is Silent.
func NewMixer(backend Backend, clips map[Kind]*Clip, logger *log.Logger) *Mixer {
	if backend == nil {
		backend = Silent{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Mixer{backend: backend, clips: clips, logger: logger}
}

// Play implements Player. Failures are logged and dropped.
func (m *Mixer) Play(k Kind) {
	if m.muted.Load() {
		return
	}
	clip, ok := m.clips[k]
	if !ok || clip == nil || len(clip.PCM) == 0 {
		return
	}
	if err := m.backend.Play(clip); err != nil {
		m.logger.Debug("cue playback failed", "cue", k, "err", err)
	}
}

// SetMuted sets the mute flag.
func (m *Mixer) SetMuted(muted bool) {
	m.muted.Store(muted)
}

// ToggleMuted flips the mute flag and returns the new value.
func (m *Mixer) ToggleMuted() bool {
	for {
		old := m.muted.Load()
		if m.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether cues are suppressed.
func (m *Mixer) Muted() bool {
	return m.muted.Load()
}

// Close releases the backend.
func (m *Mixer) Close() error {
	return m.backend.Close()
}
