//go:build !nocgo

package cue

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
)

// otoBackend plays clips through the system audio device. Started players are kept
// referenced until they drain so their data is not collected mid-playback.
type otoBackend struct {
	ctx    *oto.Context
	mu     sync.Mutex
	active []*oto.Player
}

// NewOtoBackend opens the process-wide audio context. oto allows a single context
// per process, so later calls share the first one.
func NewOtoBackend() (Backend, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("failed to create audio context: %w", err)
			return
		}
		<-ready
		otoContext = ctx
	})
	if otoErr != nil {
		return nil, otoErr
	}
	return &otoBackend{ctx: otoContext}, nil
}

// Play implements Backend.
func (b *otoBackend) Play(clip *Clip) error {
	if err := b.ctx.Err(); err != nil {
		return fmt.Errorf("audio context failed: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune()
	player := b.ctx.NewPlayer(bytes.NewReader(clip.PCM))
	player.Play()
	b.active = append(b.active, player)
	return nil
}

func (b *otoBackend) prune() {
	kept := b.active[:0]
	for _, p := range b.active {
		if p.IsPlaying() {
			kept = append(kept, p)
			continue
		}
		_ = p.Close()
	}
	for i := len(kept); i < len(b.active); i++ {
		b.active[i] = nil
	}
	b.active = kept
}

// Close implements Backend.
func (b *otoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.active {
		_ = p.Close()
	}
	b.active = nil
	return nil
}
