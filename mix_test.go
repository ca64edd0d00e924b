// SPDX-License-Identifier: EPL-2.0

package voicemix

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"

	"github.com/ik5/voicemix/audio"
	"github.com/ik5/voicemix/formats/wav"
	"github.com/ik5/voicemix/internal/audiotest"
	"github.com/ik5/voicemix/utils"
)

// recordingEncoder keeps the track it was asked to encode.
type recordingEncoder struct {
	track *audio.Track
	calls int
	err   error
}

func (e *recordingEncoder) Encode(w io.Writer, t *audio.Track) error {
	e.calls++
	e.track = t
	if e.err != nil {
		return e.err
	}
	_, err := w.Write([]byte("MP3!"))
	return err
}

type failingDecoder struct{}

func (failingDecoder) Decode(io.Reader) (audio.Source, error) {
	return nil, errors.New("unsupported codec")
}

// silenceDecoder ignores its input and yields frames of silence. Empty
// WAV files are rejected by go-audio, so zero-length inputs come from here.
type silenceDecoder struct{ frames int }

func (d silenceDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewConstantSource(8000, 1, d.frames, 0), nil
}

func emptyBlob(name string) *Blob {
	return &Blob{Name: name + ".empty", Ext: "empty", Stem: name, Data: []byte("-")}
}

var testLogger = &log.Logger{Handler: discard.New(), Level: log.DebugLevel}

func wavBlob(t *testing.T, name string, rate, channels, frames int, value int16) *Blob {
	t.Helper()

	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = value
	}

	var buf bytes.Buffer
	if err := wav.WritePCM16(&buf, rate, channels, samples); err != nil {
		t.Fatalf("WritePCM16() error = %v", err)
	}
	return &Blob{Name: name + ".wav", Ext: "wav", Stem: name, Origin: OriginUpload, Data: buf.Bytes()}
}

func newTestMixer(enc Encoder) *Mixer {
	reg := NewRegistry(nil)
	reg.Register("empty", silenceDecoder{})
	return NewMixer(reg, enc, Options{}, testLogger)
}

func TestMixer_LoopsShortMusic(t *testing.T) {
	t.Parallel()

	enc := &recordingEncoder{}
	speech := wavBlob(t, "talk", 8000, 1, 80000, 0)
	music := wavBlob(t, "tune", 8000, 1, 32000, 16384)

	res, err := newTestMixer(enc).Mix(speech, music)
	if err != nil {
		t.Fatalf("Mix() error = %v", err)
	}

	if res.SpeechMs != 10000 || res.Loops != 3 || res.FadeMs != 5000 {
		t.Errorf("diagnostics = %d ms, %d loops, %d fade; want 10000, 3, 5000", res.SpeechMs, res.Loops, res.FadeMs)
	}
	if res.Filename != "mixed_talk_tune.mp3" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if string(res.Data) != "MP3!" {
		t.Errorf("Data = %q, want encoder output", res.Data)
	}

	out := enc.track
	if out.DurationMs() != 10000 {
		t.Fatalf("mixed duration = %d ms, want 10000", out.DurationMs())
	}

	want := float32(0.5 * utils.DBToGain(-10))
	if got := out.Samples[1000]; math.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("attenuated sample = %v, want %v", got, want)
	}
	// the loop seam at 4 s keeps the same level
	if got := out.Samples[32000]; math.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("looped sample = %v, want %v", got, want)
	}
	if last := out.Samples[len(out.Samples)-1]; last != 0 {
		t.Errorf("last sample = %v, want 0 after fade", last)
	}
	// fade starts 5 s before the end
	if got := out.Samples[40000+20000]; got >= want {
		t.Errorf("sample inside fade = %v, want below %v", got, want)
	}
}

func TestMixer_LongMusicIsTrimmed(t *testing.T) {
	t.Parallel()

	enc := &recordingEncoder{}
	speech := wavBlob(t, "talk", 8000, 1, 16000, 1000)
	music := wavBlob(t, "tune", 8000, 1, 32000, 0)

	res, err := newTestMixer(enc).Mix(speech, music)
	if err != nil {
		t.Fatalf("Mix() error = %v", err)
	}

	if res.Loops != 1 || res.FadeMs != 2000 {
		t.Errorf("loops = %d, fade = %d; want 1, 2000", res.Loops, res.FadeMs)
	}
	if enc.track.Frames() != 16000 {
		t.Errorf("frames = %d, want 16000", enc.track.Frames())
	}

	// silent music leaves the speech untouched
	want := utils.Int16ToFloat32(1000)
	if got := enc.track.Samples[0]; got != want {
		t.Errorf("sample = %v, want %v", got, want)
	}
}

func TestMixer_ConformsLayout(t *testing.T) {
	t.Parallel()

	enc := &recordingEncoder{}
	speech := wavBlob(t, "talk", 16000, 1, 16000, 0)
	music := wavBlob(t, "tune", 8000, 2, 8000, 0)

	if _, err := newTestMixer(enc).Mix(speech, music); err != nil {
		t.Fatalf("Mix() error = %v", err)
	}

	out := enc.track
	if out.SampleRate != 16000 || out.Channels != 2 {
		t.Errorf("layout = %d Hz x %d, want 16000 x 2", out.SampleRate, out.Channels)
	}
	if out.DurationMs() != 1000 {
		t.Errorf("duration = %d ms, want 1000", out.DurationMs())
	}
}

func TestMixer_Failures(t *testing.T) {
	t.Parallel()

	garbage := &Blob{Name: "noise.xyz", Ext: "xyz", Stem: "noise", Data: []byte("this is not audio at all")}

	tests := []struct {
		name      string
		speech    func(t *testing.T) *Blob
		music     func(t *testing.T) *Blob
		encErr    error
		wantKind  Kind
		wantCalls int
	}{
		{
			name:     "undecodable speech",
			speech:   func(*testing.T) *Blob { return garbage },
			music:    func(t *testing.T) *Blob { return wavBlob(t, "tune", 8000, 1, 800, 0) },
			wantKind: DecodeFailure,
		},
		{
			name:     "undecodable music",
			speech:   func(t *testing.T) *Blob { return wavBlob(t, "talk", 8000, 1, 800, 0) },
			music:    func(*testing.T) *Blob { return garbage },
			wantKind: DecodeFailure,
		},
		{
			name:     "empty music",
			speech:   func(t *testing.T) *Blob { return wavBlob(t, "talk", 8000, 1, 800, 0) },
			music:    func(*testing.T) *Blob { return emptyBlob("tune") },
			wantKind: ProcessingFailure,
		},
		{
			name:      "encoder failure",
			speech:    func(t *testing.T) *Blob { return wavBlob(t, "talk", 8000, 1, 800, 0) },
			music:     func(t *testing.T) *Blob { return wavBlob(t, "tune", 8000, 1, 800, 0) },
			encErr:    errors.New("lame exploded"),
			wantKind:  ProcessingFailure,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc := &recordingEncoder{err: tt.encErr}
			_, err := newTestMixer(enc).Mix(tt.speech(t), tt.music(t))

			var mixErr *Error
			if !errors.As(err, &mixErr) {
				t.Fatalf("Mix() error = %v, want *Error", err)
			}
			if mixErr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", mixErr.Kind, tt.wantKind)
			}
			if enc.calls != tt.wantCalls {
				t.Errorf("encoder calls = %d, want %d", enc.calls, tt.wantCalls)
			}
		})
	}
}

func TestMixer_EmptySpeechSkipsEncoder(t *testing.T) {
	t.Parallel()

	enc := &recordingEncoder{}
	res, err := newTestMixer(enc).Mix(
		emptyBlob("talk"),
		wavBlob(t, "tune", 8000, 1, 800, 100),
	)
	if err != nil {
		t.Fatalf("Mix() error = %v", err)
	}
	if enc.calls != 0 {
		t.Errorf("encoder called %d times, want 0", enc.calls)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("Data = %v, want empty non-nil payload", res.Data)
	}
}

func TestMixer_FallbackRetry(t *testing.T) {
	t.Parallel()

	reg := audio.NewRegistry()
	reg.Register(audio.FormatWAV, failingDecoder{})
	reg.SetFallback(wav.Decoder{})

	enc := &recordingEncoder{}
	m := NewMixer(reg, enc, Options{FadeCapMs: 100}, testLogger)

	res, err := m.Mix(wavBlob(t, "talk", 8000, 1, 800, 0), wavBlob(t, "tune", 8000, 1, 800, 0))
	if err != nil {
		t.Fatalf("Mix() error = %v", err)
	}
	if res.FadeMs != 100 {
		t.Errorf("FadeMs = %d, want 100", res.FadeMs)
	}
}

func TestLoopCount(t *testing.T) {
	t.Parallel()

	mk := func(rate, frames int) *audio.Track {
		tr, err := audio.NewTrack(rate, 1, make([]float32, frames))
		if err != nil {
			t.Fatalf("NewTrack() error = %v", err)
		}
		return tr
	}

	tests := []struct {
		name          string
		speech, music *audio.Track
		want          int
	}{
		{name: "10s over 4s", speech: mk(1000, 10000), music: mk(1000, 4000), want: 3},
		{name: "exact multiple", speech: mk(1000, 8000), music: mk(1000, 4000), want: 3},
		{name: "sub millisecond music", speech: mk(48000, 48), music: mk(48000, 10), want: 5},
		{name: "music rounds up to 1 ms", speech: mk(44100, 441000), music: mk(44100, 44), want: 10023},
		{name: "music rounds up to 1 s", speech: mk(10000, 29990), music: mk(10000, 9996), want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := loopCount(tt.speech, tt.music); got != tt.want {
				t.Errorf("loopCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMixer_FractionalMusicKeepsSpeechTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rate         int
		speechFrames int
		musicFrames  int
		wantLoops    int
	}{
		{name: "44 frames at 44.1 kHz", rate: 44100, speechFrames: 441000, musicFrames: 44, wantLoops: 10023},
		{name: "9996 frames at 10 kHz", rate: 10000, speechFrames: 29990, musicFrames: 9996, wantLoops: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc := &recordingEncoder{}
			speech := wavBlob(t, "talk", tt.rate, 1, tt.speechFrames, 1000)
			music := wavBlob(t, "tune", tt.rate, 1, tt.musicFrames, 0)

			res, err := newTestMixer(enc).Mix(speech, music)
			if err != nil {
				t.Fatalf("Mix() error = %v", err)
			}
			if res.Loops != tt.wantLoops {
				t.Errorf("loops = %d, want %d", res.Loops, tt.wantLoops)
			}

			out := enc.track
			if out.Frames() != tt.speechFrames {
				t.Fatalf("frames = %d, want %d", out.Frames(), tt.speechFrames)
			}
			// the final speech sample survives the overlay
			want := utils.Int16ToFloat32(1000)
			if got := out.Samples[len(out.Samples)-1]; got != want {
				t.Errorf("last sample = %v, want %v", got, want)
			}
		})
	}
}

func TestMixer_ZeroGainKeepsMusicLevel(t *testing.T) {
	t.Parallel()

	enc := &recordingEncoder{}
	speech := wavBlob(t, "talk", 8000, 1, 80000, 0)
	music := wavBlob(t, "tune", 8000, 1, 80000, 16384)

	m := NewMixer(NewRegistry(nil), enc, Options{MusicGainDB: GainDB(0)}, testLogger)
	if _, err := m.Mix(speech, music); err != nil {
		t.Fatalf("Mix() error = %v", err)
	}

	if got := enc.track.Samples[1000]; got != 0.5 {
		t.Errorf("sample = %v, want 0.5 with 0 dB gain", got)
	}
}

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	got := Options{}.withDefaults()
	if got.FadeCapMs != DefaultFadeCapMs || got.MusicGainDB == nil || *got.MusicGainDB != DefaultMusicGainDB {
		t.Errorf("withDefaults() = %+v", got)
	}

	tests := []struct {
		name string
		gain float64
	}{
		{name: "custom", gain: -3},
		{name: "zero is kept", gain: 0},
	}
	for _, tt := range tests {
		custom := Options{FadeCapMs: 1, MusicGainDB: GainDB(tt.gain)}.withDefaults()
		if custom.FadeCapMs != 1 || *custom.MusicGainDB != tt.gain {
			t.Errorf("%s: withDefaults() overrode fade %d gain %v", tt.name, custom.FadeCapMs, *custom.MusicGainDB)
		}
	}
}
