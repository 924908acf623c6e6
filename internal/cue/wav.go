package cue

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	wavHeaderSize = 12
	wavFormatPCM  = 1
)

// ErrInvalidWAV is returned for files that are not 16-bit PCM WAV.
var ErrInvalidWAV = errors.New("invalid wav data")

type wavFormat struct {
	audioFormat   uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
}

// DecodeWAV converts a 16-bit PCM WAV file to a Clip: channels are averaged to mono,
// the sample rate is converted to SampleRate and samples are scaled by volume.
func DecodeWAV(data []byte, volume float64) (*Clip, error) {
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}
	var (
		format  *wavFormat
		samples []byte
	)
	for pos := wavHeaderSize; pos+8 <= len(data); {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("%w: truncated %q chunk", ErrInvalidWAV, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			chunk := data[body : body+size]
			format = &wavFormat{
				audioFormat:   binary.LittleEndian.Uint16(chunk[0:2]),
				channels:      binary.LittleEndian.Uint16(chunk[2:4]),
				sampleRate:    binary.LittleEndian.Uint32(chunk[4:8]),
				bitsPerSample: binary.LittleEndian.Uint16(chunk[14:16]),
			}
		case "data":
			samples = data[body : body+size]
		}
		// Chunks are word aligned.
		pos = body + size + size%2
	}
	if format == nil || samples == nil {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrInvalidWAV)
	}
	if format.audioFormat != wavFormatPCM || format.bitsPerSample != BitDepth {
		return nil, fmt.Errorf("%w: only 16-bit PCM is supported", ErrInvalidWAV)
	}
	if format.channels == 0 || format.sampleRate == 0 {
		return nil, fmt.Errorf("%w: zero channels or sample rate", ErrInvalidWAV)
	}

	mono := downmix(samples, int(format.channels))
	mono = resample(mono, int(format.sampleRate), SampleRate)
	pcm := make([]byte, len(mono)*2)
	for i, s := range mono {
		v := math.Max(math.MinInt16, math.Min(math.MaxInt16, float64(s)*volume))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v)))
	}
	return &Clip{PCM: pcm}, nil
}

func downmix(samples []byte, channels int) []int16 {
	frame := channels * 2
	out := make([]int16, len(samples)/frame)
	for i := range out {
		sum := 0
		for c := 0; c < channels; c++ {
			off := i*frame + c*2
			sum += int(int16(binary.LittleEndian.Uint16(samples[off : off+2])))
		}
		out[i] = int16(sum / channels)
	}
	return out
}

// resample uses nearest-neighbour conversion, which is adequate for short cues.
func resample(in []int16, from, to int) []int16 {
	if from == to || len(in) == 0 {
		return in
	}
	n := int(int64(len(in)) * int64(to) / int64(from))
	out := make([]int16, n)
	for i := range out {
		src := int(int64(i) * int64(from) / int64(to))
		if src >= len(in) {
			src = len(in) - 1
		}
		out[i] = in[src]
	}
	return out
}
