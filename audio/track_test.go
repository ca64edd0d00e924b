// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/voicemix/internal/audiotest"
)

func mustTrack(t *testing.T, rate, channels int, samples []float32) *Track {
	t.Helper()

	tr, err := NewTrack(rate, channels, samples)
	if err != nil {
		t.Fatalf("NewTrack() error = %v", err)
	}
	return tr
}

func TestNewTrack_InvalidLayout(t *testing.T) {
	t.Parallel()

	if _, err := NewTrack(0, 1, nil); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("NewTrack(rate=0) error = %v, want ErrInvalidLayout", err)
	}
	if _, err := NewTrack(8000, 0, nil); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("NewTrack(channels=0) error = %v, want ErrInvalidLayout", err)
	}
}

func TestNewTrack_DropsPartialFrame(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 8000, 2, []float32{1, 2, 3, 4, 5})
	if tr.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", tr.Frames())
	}
}

func TestReadTrack(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 2, 10000, 0.25)
	tr, err := ReadTrack(src)
	if err != nil {
		t.Fatalf("ReadTrack() error = %v", err)
	}

	if tr.Frames() != 10000 {
		t.Errorf("Frames() = %d, want 10000", tr.Frames())
	}
	if tr.Channels != 2 || tr.SampleRate != 8000 {
		t.Errorf("layout = %d Hz x %d, want 8000 Hz x 2", tr.SampleRate, tr.Channels)
	}
	if tr.DurationMs() != 1250 {
		t.Errorf("DurationMs() = %d, want 1250", tr.DurationMs())
	}
}

func TestReadTrack_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := audiotest.NewConstantSource(8000, 1, 10000, 0.1).FailAt(5000, boom)

	if _, err := ReadTrack(src); !errors.Is(err, boom) {
		t.Errorf("ReadTrack() error = %v, want %v", err, boom)
	}
}

type stalledSource struct{}

func (stalledSource) SampleRate() int                { return 8000 }
func (stalledSource) Channels() int                  { return 1 }
func (stalledSource) BufSize() int                   { return 16 }
func (stalledSource) Close() error                   { return nil }
func (stalledSource) ReadSamples([]float32) (int, error) { return 0, nil }

func TestReadTrack_StalledDecoder(t *testing.T) {
	t.Parallel()

	if _, err := ReadTrack(stalledSource{}); !errors.Is(err, io.ErrNoProgress) {
		t.Errorf("ReadTrack() error = %v, want io.ErrNoProgress", err)
	}
}

func TestTrack_DurationRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rate   int
		frames int
		want   int64
	}{
		{name: "exact", rate: 1000, frames: 4000, want: 4000},
		{name: "rounds down", rate: 44100, frames: 44100 + 20, want: 1000},
		{name: "rounds up", rate: 44100, frames: 44100 + 30, want: 1001},
		{name: "empty", rate: 44100, frames: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := mustTrack(t, tt.rate, 1, make([]float32, tt.frames))
			if got := tr.DurationMs(); got != tt.want {
				t.Errorf("DurationMs() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrack_Loop(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 1000, 2, audiotest.Ramp(4, 2))
	looped, err := tr.Loop(3)
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}

	if looped.Frames() != 12 {
		t.Fatalf("Frames() = %d, want 12", looped.Frames())
	}
	for f := range 12 {
		if got, want := looped.Samples[f*2], float32(f%4); got != want {
			t.Errorf("frame %d = %v, want %v", f, got, want)
		}
	}
	if tr.Frames() != 4 {
		t.Error("Loop() modified the receiver")
	}
}

func TestTrack_LoopEmpty(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 1000, 1, nil)
	if _, err := tr.Loop(2); !errors.Is(err, ErrEmptyLoopSource) {
		t.Errorf("Loop() error = %v, want ErrEmptyLoopSource", err)
	}
}

func TestTrack_Trim(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 1000, 1, audiotest.Ramp(5000, 1))

	trimmed := tr.Trim(3000)
	if trimmed.Frames() != 3000 {
		t.Errorf("Trim(3000) frames = %d, want 3000", trimmed.Frames())
	}
	if trimmed.DurationMs() != 3000 {
		t.Errorf("Trim(3000) duration = %d, want 3000", trimmed.DurationMs())
	}

	// Trimming never lengthens
	if longer := tr.Trim(9000); longer.Frames() != 5000 {
		t.Errorf("Trim(9000) frames = %d, want 5000", longer.Frames())
	}

	if zero := tr.Trim(0); zero.Frames() != 0 {
		t.Errorf("Trim(0) frames = %d, want 0", zero.Frames())
	}
}

func TestTrack_TrimFrames(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 44100, 2, make([]float32, 2*100))

	tests := []struct {
		frames int
		want   int
	}{
		{frames: 44, want: 44},
		{frames: 100, want: 100},
		{frames: 150, want: 100},
		{frames: -1, want: 0},
	}
	for _, tt := range tests {
		if got := tr.TrimFrames(tt.frames).Frames(); got != tt.want {
			t.Errorf("TrimFrames(%d) frames = %d, want %d", tt.frames, got, tt.want)
		}
	}
}

func TestTrack_ApplyGain(t *testing.T) {
	t.Parallel()

	for _, level := range []float32{0.9, 0.5, 0.01} {
		tr := mustTrack(t, 1000, 1, audiotest.Constant(10, 1, level))
		tr.ApplyGain(-10)

		want := float64(level) * math.Pow(10, -0.5)
		for i, s := range tr.Samples {
			if math.Abs(float64(s)-want) > 1e-6 {
				t.Fatalf("level %v: sample %d = %v, want %v", level, i, s, want)
			}
		}
	}
}

func TestTrack_FadeOut(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 1000, 2, audiotest.Constant(1000, 2, 0.5))
	n := tr.FadeOut(200)

	if n != 200 {
		t.Fatalf("FadeOut() faded %d frames, want 200", n)
	}

	// Frames before the fade are untouched
	for f := range 800 {
		if tr.Samples[f*2] != 0.5 || tr.Samples[f*2+1] != 0.5 {
			t.Fatalf("frame %d modified before fade start", f)
		}
	}

	// Gain decreases monotonically and ends at silence
	prev := float32(0.5)
	for f := 800; f < 1000; f++ {
		s := tr.Samples[f*2]
		if s > prev {
			t.Fatalf("frame %d = %v rises above previous %v", f, s, prev)
		}
		prev = s
	}
	if last := tr.Samples[len(tr.Samples)-1]; last != 0 {
		t.Errorf("last sample = %v, want 0", last)
	}
}

func TestTrack_FadeOutLongerThanTrack(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 1000, 1, audiotest.Constant(100, 1, 0.5))
	if n := tr.FadeOut(5000); n != 100 {
		t.Errorf("FadeOut() faded %d frames, want 100", n)
	}

	empty := mustTrack(t, 1000, 1, nil)
	if n := empty.FadeOut(5000); n != 0 {
		t.Errorf("FadeOut() on empty track faded %d frames, want 0", n)
	}
}

func TestTrack_Overlay(t *testing.T) {
	t.Parallel()

	base := mustTrack(t, 1000, 1, audiotest.Constant(10, 1, 0.25))
	top := mustTrack(t, 1000, 1, audiotest.Constant(20, 1, 0.5))

	if err := base.Overlay(top); err != nil {
		t.Fatalf("Overlay() error = %v", err)
	}
	if base.Frames() != 10 {
		t.Errorf("Overlay() changed base length to %d", base.Frames())
	}
	for i, s := range base.Samples {
		if s != 0.75 {
			t.Errorf("sample %d = %v, want 0.75", i, s)
		}
	}
}

func TestTrack_OverlaySaturates(t *testing.T) {
	t.Parallel()

	base := mustTrack(t, 1000, 1, audiotest.Constant(4, 1, 0.8))
	top := mustTrack(t, 1000, 1, audiotest.Constant(2, 1, 0.8))

	if err := base.Overlay(top); err != nil {
		t.Fatalf("Overlay() error = %v", err)
	}

	want := []float32{1, 1, 0.8, 0.8}
	for i := range want {
		if base.Samples[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, base.Samples[i], want[i])
		}
	}
}

func TestTrack_OverlayLayoutMismatch(t *testing.T) {
	t.Parallel()

	base := mustTrack(t, 1000, 1, make([]float32, 4))
	top := mustTrack(t, 2000, 1, make([]float32, 4))

	if err := base.Overlay(top); !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("Overlay() error = %v, want ErrLayoutMismatch", err)
	}
}

func TestTrack_PCM16(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 1000, 1, []float32{0, 1, -1, 0.5})
	pcm := tr.PCM16()

	want := []int16{0, 32767, -32767, 16383}
	for i := range want {
		if d := int(pcm[i]) - int(want[i]); d < -1 || d > 1 {
			t.Errorf("pcm[%d] = %d, want %d", i, pcm[i], want[i])
		}
	}
}
