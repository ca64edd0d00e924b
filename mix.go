// SPDX-License-Identifier: EPL-2.0

package voicemix

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/ik5/voicemix/audio"
)

const (
	DefaultFadeCapMs   = 5000
	DefaultMusicGainDB = -10.0
)

// Encoder turns a finished track into the output format.
type Encoder interface {
	Encode(w io.Writer, t *audio.Track) error
}

// Options tune the mix. A zero FadeCapMs or a nil MusicGainDB falls back to
// the default; a gain of 0 dB leaves the music level untouched.
type Options struct {
	FadeCapMs   int64
	MusicGainDB *float64
}

func (o Options) withDefaults() Options {
	if o.FadeCapMs <= 0 {
		o.FadeCapMs = DefaultFadeCapMs
	}
	if o.MusicGainDB == nil {
		gain := DefaultMusicGainDB
		o.MusicGainDB = &gain
	}
	return o
}

// GainDB returns a pointer for Options.MusicGainDB.
func GainDB(db float64) *float64 {
	return &db
}

// Mixer lays a speech track over background music. It holds no per-request
// state and is safe for concurrent use.
type Mixer struct {
	registry *audio.Registry
	encoder  Encoder
	opts     Options
	logger   log.Interface
}

// NewMixer builds a Mixer. A nil logger uses the apex/log default.
func NewMixer(registry *audio.Registry, encoder Encoder, opts Options, logger log.Interface) *Mixer {
	if logger == nil {
		logger = log.Log
	}
	return &Mixer{
		registry: registry,
		encoder:  encoder,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Mix decodes both blobs, fits the music to the speech length, ducks and
// fades it, overlays the speech and encodes the result.
func (m *Mixer) Mix(speech, music *Blob) (*Result, error) {
	started := time.Now()
	ctx := m.logger.WithFields(log.Fields{
		"speech": speech.Name,
		"music":  music.Name,
	})

	s, err := m.load(speech, ctx)
	if err != nil {
		return nil, err
	}
	mus, err := m.load(music, ctx)
	if err != nil {
		return nil, err
	}

	conformed, err := audio.Conform(s, mus)
	if err != nil {
		return nil, WrapError(ProcessingFailure, "converting layout", err)
	}
	s, mus = conformed[0], conformed[1]

	speechMs := s.DurationMs()
	res := &Result{
		Filename: OutputFilename(speech.Stem, music.Stem),
		SpeechMs: speechMs,
		Loops:    1,
	}

	// compared in frames: rounded milliseconds can hide a short tail
	if mus.Frames() < s.Frames() {
		if mus.Frames() == 0 {
			return nil, NewError(ProcessingFailure, "music track is empty")
		}
		musicMs := mus.DurationMs()
		res.Loops = loopCount(s, mus)
		mus, err = mus.Loop(res.Loops)
		if err != nil {
			return nil, WrapError(ProcessingFailure, "looping music", err)
		}
		ctx.WithFields(log.Fields{
			"music_ms":  musicMs,
			"speech_ms": speechMs,
			"loops":     res.Loops,
		}).Debug("loop")
	}

	mus = mus.TrimFrames(s.Frames())
	ctx.WithField("ms", mus.DurationMs()).Debug("trim")

	mus.ApplyGain(*m.opts.MusicGainDB)
	ctx.WithField("db", *m.opts.MusicGainDB).Debug("attenuate")

	fadeMs := min(m.opts.FadeCapMs, speechMs)
	mus.FadeOut(fadeMs)
	res.FadeMs = fadeMs
	ctx.WithField("ms", fadeMs).Debug("fade")

	if err := mus.Overlay(s); err != nil {
		return nil, WrapError(ProcessingFailure, "overlaying speech", err)
	}
	ctx.WithField("frames", mus.Frames()).Debug("overlay")

	if mus.Frames() == 0 {
		ctx.Debug("encode skipped, empty result")
		res.Data = []byte{}
		return res, nil
	}

	var out bytes.Buffer
	if err := m.encoder.Encode(&out, mus); err != nil {
		return nil, WrapError(ProcessingFailure, "encoding mp3", err)
	}
	res.Data = out.Bytes()

	ctx.WithFields(log.Fields{
		"size":     humanize.Bytes(uint64(len(res.Data))),
		"duration": time.Since(started).String(),
	}).Debug("encode")

	return res, nil
}

// loopCount is how many copies of music cover speech, with at least one
// spare so trimming always has enough material.
func loopCount(speech, music *audio.Track) int {
	return speech.Frames()/music.Frames() + 1
}

func (m *Mixer) load(b *Blob, ctx *log.Entry) (*audio.Track, error) {
	head := b.Data[:min(len(b.Data), audio.SniffLen)]
	dec, format, err := m.registry.Lookup(head, b.Ext)
	if err != nil {
		return nil, WrapError(DecodeFailure, fmt.Sprintf("no decoder for %q", b.Name), err)
	}

	tr, err := decode(dec, b.Data)
	if err != nil && format != "" {
		// content that looks right but the pure Go decoder cannot handle,
		// such as Opus in Ogg, still gets a chance through the fallback
		if fb := m.registry.Fallback(); fb != nil {
			ctx.WithError(err).WithField("format", format).Debug("retrying with fallback decoder")
			tr, err = decode(fb, b.Data)
			format = ""
		}
	}
	if err != nil {
		return nil, WrapError(DecodeFailure, fmt.Sprintf("decoding %q", b.Name), err)
	}

	if format == "" {
		format = "fallback"
	}
	ctx.WithFields(log.Fields{
		"name":     b.Name,
		"format":   format,
		"rate":     tr.SampleRate,
		"channels": tr.Channels,
		"ms":       tr.DurationMs(),
		"size":     humanize.Bytes(uint64(len(b.Data))),
	}).Debug("load")

	return tr, nil
}

func decode(dec audio.Decoder, data []byte) (*audio.Track, error) {
	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return audio.ReadTrack(src)
}
