// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM building blocks used by the mixer.
//
// # Sources and Decoders
//
// Format decoders (see the formats subpackages) return a Source, a stream of
// interleaved float32 samples in [-1.0, 1.0]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadTrack drains a Source into an in-memory Track.
//
// # Registry
//
// A Registry maps format keys to decoders. Lookup sniffs the leading bytes
// of the data first and only falls back to the extension hint when the
// content is not recognised; anything left over goes to the fallback
// decoder:
//
//	reg := audio.NewRegistry()
//	reg.Register(audio.FormatWAV, wav.Decoder{})
//	reg.SetFallback(ffmpeg.Decoder{})
//	dec, format, err := reg.Lookup(data[:audio.SniffLen], "wav")
//
// # Tracks
//
// Track operations mirror what the mixer needs:
//   - Loop repeats the track back to back
//   - Trim keeps the first N milliseconds and never lengthens
//   - ApplyGain scales by a decibel amount
//   - FadeOut ramps the tail linearly to silence
//   - Overlay adds another track sample by sample, keeping the base length
//
// Loop and Trim return new tracks; ApplyGain, FadeOut and Overlay work in
// place.
//
// # Layout Conversion
//
// Resample changes the sample rate with cubic interpolation, Remix changes
// the channel count, and Conform brings several tracks to a shared layout
// (highest rate, most channels) so they can be overlaid.
package audio
