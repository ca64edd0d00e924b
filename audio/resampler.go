// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/voicemix/utils"
)

// Resample converts t to dstRate using cubic interpolation and returns a new
// track. Channel count is preserved. Downsampling runs a one-pole low-pass
// over the input first as a cheap anti-aliasing step. The output length is
// the input duration at the new rate, rounded to the nearest frame.
func Resample(t *Track, dstRate int) (*Track, error) {
	if dstRate <= 0 {
		return nil, ErrInvalidLayout
	}
	if dstRate == t.SampleRate {
		return t, nil
	}

	channels := t.Channels
	srcFrames := t.Frames()
	ratio := float64(t.SampleRate) / float64(dstRate)
	outFrames := int(math.Round(float64(srcFrames) / ratio))

	src := t.Samples
	if ratio > 1 {
		src = lowPass(t.Samples, channels, 0.5)
	}

	// at clamps frame indexes to the edges so the first and last output
	// frames reuse the boundary sample instead of reading out of range.
	at := func(frame, c int) float32 {
		if frame < 0 {
			frame = 0
		} else if frame >= srcFrames {
			frame = srcFrames - 1
		}
		return src[frame*channels+c]
	}

	out := make([]float32, outFrames*channels)
	for i := range outFrames {
		pos := float64(i) * ratio
		idx := int(pos)
		alpha := float32(pos - float64(idx))
		for c := range channels {
			out[i*channels+c] = utils.CubicInterpolate(
				at(idx-1, c), at(idx, c), at(idx+1, c), at(idx+2, c), alpha,
			)
		}
	}

	return &Track{Samples: out, SampleRate: dstRate, Channels: channels}, nil
}

// lowPass applies y[n] = alpha*x[n] + (1-alpha)*y[n-1] per channel. The
// filter state starts at the first frame to avoid a warm-up transient.
func lowPass(samples []float32, channels int, alpha float32) []float32 {
	out := make([]float32, len(samples))
	if len(samples) < channels {
		return out
	}

	state := make([]float32, channels)
	copy(state, samples[:channels])
	for i := 0; i+channels <= len(samples); i += channels {
		for c := range channels {
			state[c] = alpha*samples[i+c] + (1-alpha)*state[c]
			out[i+c] = state[c]
		}
	}
	return out
}
