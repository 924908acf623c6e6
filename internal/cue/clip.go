package cue

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Output format shared by every clip.
const (
	SampleRate = 44100
	Channels   = 1
	BitDepth   = 16
)

const fadeDuration = 4 * time.Millisecond

// Clip is mono 16-bit little-endian PCM at SampleRate.
type Clip struct {
	PCM []byte
}

// Duration returns the clip length.
func (c *Clip) Duration() time.Duration {
	samples := len(c.PCM) / (BitDepth / 8 * Channels)
	return time.Duration(samples) * time.Second / SampleRate
}

type note struct {
	freq float64
	dur  time.Duration
}

var defaultNotes = map[Kind][]note{
	WordAppear: {{freq: 880, dur: 25 * time.Millisecond}},
	Start:      {{freq: 523.25, dur: 60 * time.Millisecond}, {freq: 783.99, dur: 60 * time.Millisecond}},
	Stop:       {{freq: 783.99, dur: 60 * time.Millisecond}, {freq: 523.25, dur: 60 * time.Millisecond}},
	Complete: {
		{freq: 523.25, dur: 90 * time.Millisecond},
		{freq: 659.25, dur: 90 * time.Millisecond},
		{freq: 783.99, dur: 90 * time.Millisecond},
		{freq: 1046.5, dur: 160 * time.Millisecond},
	},
	Keypress: {{freq: 1320, dur: 12 * time.Millisecond}},
	Hover:    {{freq: 440, dur: 18 * time.Millisecond}},
}

// Tone synthesizes a sine wave with short linear fades at both ends.
func Tone(freq float64, dur time.Duration, volume float64) *Clip {
	n := samplesFor(dur)
	fade := samplesFor(fadeDuration)
	if fade*2 > n {
		fade = n / 2
	}
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		amp := volume
		switch {
		case fade > 0 && i < fade:
			amp *= float64(i) / float64(fade)
		case fade > 0 && i >= n-fade:
			amp *= float64(n-1-i) / float64(fade)
		}
		v := math.Sin(2*math.Pi*freq*float64(i)/SampleRate) * amp * math.MaxInt16
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v)))
	}
	return &Clip{PCM: pcm}
}

func samplesFor(d time.Duration) int {
	return int(int64(d) * SampleRate / int64(time.Second))
}

func concat(notes []note, volume float64) *Clip {
	var pcm []byte
	for _, n := range notes {
		pcm = append(pcm, Tone(n.freq, n.dur, volume).PCM...)
	}
	return &Clip{PCM: pcm}
}

// DefaultClips synthesizes a clip for every cue kind.
func DefaultClips(volume float64) map[Kind]*Clip {
	volume = clampVolume(volume)
	clips := make(map[Kind]*Clip, len(Kinds))
	for _, k := range Kinds {
		clips[k] = concat(defaultNotes[k], volume)
	}
	return clips
}

// LoadClips returns the default clips with any "<kind>.wav" found in dir replacing
// the synthesized one. An empty dir yields the defaults.
func LoadClips(dir string, volume float64) (map[Kind]*Clip, error) {
	clips := DefaultClips(volume)
	if dir == "" {
		return clips, nil
	}
	for _, k := range Kinds {
		path := filepath.Join(dir, k.String()+".wav")
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read cue %s: %w", path, err)
		}
		clip, err := DecodeWAV(data, clampVolume(volume))
		if err != nil {
			return nil, fmt.Errorf("failed to decode cue %s: %w", path, err)
		}
		clips[k] = clip
	}
	return clips, nil
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
