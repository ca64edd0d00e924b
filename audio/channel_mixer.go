// SPDX-License-Identifier: EPL-2.0

package audio

// Remix converts t to the requested channel count and returns a new track.
// Down-mixing averages all channels; mono is duplicated to every output
// channel; other combinations go through an intermediate mono mix.
func Remix(t *Track, channels int) (*Track, error) {
	if channels <= 0 {
		return nil, ErrInvalidLayout
	}
	if channels == t.Channels {
		return t, nil
	}

	frames := t.Frames()
	mono := t.Samples
	if t.Channels != 1 {
		mono = downmix(t.Samples, t.Channels, frames)
	}
	if channels == 1 {
		return &Track{Samples: mono, SampleRate: t.SampleRate, Channels: 1}, nil
	}

	out := make([]float32, frames*channels)
	for f := range frames {
		v := mono[f]
		base := f * channels
		for c := range channels {
			out[base+c] = v
		}
	}
	return &Track{Samples: out, SampleRate: t.SampleRate, Channels: channels}, nil
}

func downmix(samples []float32, channels, frames int) []float32 {
	out := make([]float32, frames)

	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			out[f] = (samples[idx] + samples[idx+1]) * 0.5
		}
	default:
		inv := float32(1.0) / float32(channels)
		for f := range frames {
			sum := float32(0)
			base := f * channels
			for c := range channels {
				sum += samples[base+c]
			}
			out[f] = sum * inv
		}
	}
	return out
}

// Conform brings every track to a shared layout: the highest sample rate
// and the highest channel count among them. Tracks already in that layout
// are returned as is.
func Conform(tracks ...*Track) ([]*Track, error) {
	rate, channels := 0, 0
	for _, t := range tracks {
		rate = max(rate, t.SampleRate)
		channels = max(channels, t.Channels)
	}

	out := make([]*Track, len(tracks))
	for i, t := range tracks {
		r, err := Resample(t, rate)
		if err != nil {
			return nil, err
		}
		if out[i], err = Remix(r, channels); err != nil {
			return nil, err
		}
	}
	return out, nil
}
