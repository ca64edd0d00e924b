// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"slices"

	"github.com/ik5/voicemix/utils"
)

// maxEmptyReads bounds how many (0, nil) reads ReadTrack tolerates in a row
// before giving up on a stalled decoder.
const maxEmptyReads = 64

// Track is a fully decoded, in-memory PCM track. Samples are interleaved
// float32 values in [-1, 1].
type Track struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// NewTrack validates the layout and wraps samples. A trailing partial frame
// is dropped.
func NewTrack(sampleRate, channels int, samples []float32) (*Track, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidLayout
	}
	samples = samples[:len(samples)-len(samples)%channels]
	return &Track{Samples: samples, SampleRate: sampleRate, Channels: channels}, nil
}

// ReadTrack drains src into a Track. The source is not closed.
func ReadTrack(src Source) (*Track, error) {
	channels := src.Channels()
	rate := src.SampleRate()
	if channels <= 0 || rate <= 0 {
		return nil, ErrInvalidLayout
	}

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels
	buf := make([]float32, size)

	var samples []float32
	empty := 0
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
			empty = 0
		} else if err == nil {
			empty++
			if empty >= maxEmptyReads {
				return nil, fmt.Errorf("read samples: %w", io.ErrNoProgress)
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}
	}

	return NewTrack(rate, channels, samples)
}

// Frames is the number of sample frames (samples per channel).
func (t *Track) Frames() int {
	return len(t.Samples) / t.Channels
}

// DurationMs is the track length in milliseconds, rounded to the nearest ms.
func (t *Track) DurationMs() int64 {
	rate := int64(t.SampleRate)
	return (int64(t.Frames())*1000 + rate/2) / rate
}

// FramesForMs converts a millisecond position into a frame index.
func (t *Track) FramesForMs(ms int64) int {
	if ms <= 0 {
		return 0
	}
	return int(ms * int64(t.SampleRate) / 1000)
}

// Loop returns a new track holding times back-to-back copies of t.
func (t *Track) Loop(times int) (*Track, error) {
	if times < 1 {
		times = 1
	}
	if len(t.Samples) == 0 && times > 1 {
		return nil, ErrEmptyLoopSource
	}

	out := make([]float32, 0, len(t.Samples)*times)
	for range times {
		out = append(out, t.Samples...)
	}
	return &Track{Samples: out, SampleRate: t.SampleRate, Channels: t.Channels}, nil
}

// Trim keeps the first ms milliseconds. It never lengthens the track.
func (t *Track) Trim(ms int64) *Track {
	return t.TrimFrames(t.FramesForMs(ms))
}

// TrimFrames keeps the first frames frames. It never lengthens the track.
func (t *Track) TrimFrames(frames int) *Track {
	frames = max(frames, 0)
	if frames >= t.Frames() {
		return t
	}
	return &Track{
		Samples:    slices.Clip(t.Samples[:frames*t.Channels]),
		SampleRate: t.SampleRate,
		Channels:   t.Channels,
	}
}

// ApplyGain scales every sample by the linear factor of db, in place.
func (t *Track) ApplyGain(db float64) {
	gain := float32(utils.DBToGain(db))
	for i := range t.Samples {
		t.Samples[i] = utils.ClampUnit(t.Samples[i] * gain)
	}
}

// FadeOut ramps the last ms milliseconds linearly down to silence, in place.
// The final frame ends at zero. It returns the number of frames faded, which
// never exceeds the track length.
func (t *Track) FadeOut(ms int64) int {
	n := min(t.FramesForMs(ms), t.Frames())
	if n <= 0 {
		return 0
	}

	start := t.Frames() - n
	for i := range n {
		gain := 1 - float32(i+1)/float32(n)
		base := (start + i) * t.Channels
		for c := range t.Channels {
			t.Samples[base+c] *= gain
		}
	}
	return n
}

// Overlay adds top onto t starting at frame 0, in place. The result keeps
// t's length; any part of top past the end is dropped. Sums saturate at full
// scale.
func (t *Track) Overlay(top *Track) error {
	if top.SampleRate != t.SampleRate || top.Channels != t.Channels {
		return ErrLayoutMismatch
	}

	n := min(len(t.Samples), len(top.Samples))
	for i := range n {
		t.Samples[i] = utils.ClampUnit(t.Samples[i] + top.Samples[i])
	}
	return nil
}

// PCM16 renders the track as interleaved 16-bit samples.
func (t *Track) PCM16() []int16 {
	out := make([]int16, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = utils.Float32ToInt16(s)
	}
	return out
}
