// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"testing"
)

func TestRemix_StereoToMono(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 8000, 2, []float32{0.2, 0.4, -0.5, 0.5})
	out, err := Remix(tr, 1)
	if err != nil {
		t.Fatalf("Remix() error = %v", err)
	}

	want := []float32{0.3, 0}
	for i := range want {
		if diff := out.Samples[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("sample %d = %v, want %v", i, out.Samples[i], want[i])
		}
	}
}

func TestRemix_MonoToStereo(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 8000, 1, []float32{0.1, 0.2, 0.3})
	out, err := Remix(tr, 2)
	if err != nil {
		t.Fatalf("Remix() error = %v", err)
	}

	if out.Frames() != 3 || out.Channels != 2 {
		t.Fatalf("layout = %d frames x %d, want 3 x 2", out.Frames(), out.Channels)
	}
	for f := range 3 {
		if out.Samples[f*2] != tr.Samples[f] || out.Samples[f*2+1] != tr.Samples[f] {
			t.Errorf("frame %d = %v, want both channels %v", f, out.Samples[f*2:f*2+2], tr.Samples[f])
		}
	}
}

func TestRemix_QuadToStereo(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 8000, 4, []float32{0.1, 0.2, 0.3, 0.4})
	out, err := Remix(tr, 2)
	if err != nil {
		t.Fatalf("Remix() error = %v", err)
	}

	for _, s := range out.Samples {
		if diff := s - 0.25; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("sample = %v, want 0.25", s)
		}
	}
}

func TestRemix_Passthrough(t *testing.T) {
	t.Parallel()

	tr := mustTrack(t, 8000, 2, make([]float32, 8))
	out, err := Remix(tr, 2)
	if err != nil {
		t.Fatalf("Remix() error = %v", err)
	}
	if out != tr {
		t.Error("Remix() to the same channel count should return the input track")
	}
}

func TestConform(t *testing.T) {
	t.Parallel()

	speech := mustTrack(t, 16000, 1, make([]float32, 16000))
	music := mustTrack(t, 44100, 2, make([]float32, 44100*2))

	out, err := Conform(speech, music)
	if err != nil {
		t.Fatalf("Conform() error = %v", err)
	}

	for i, tr := range out {
		if tr.SampleRate != 44100 || tr.Channels != 2 {
			t.Errorf("track %d layout = %d x %d, want 44100 x 2", i, tr.SampleRate, tr.Channels)
		}
	}
	if out[0].DurationMs() != 1000 {
		t.Errorf("speech duration = %d ms, want 1000", out[0].DurationMs())
	}
	if out[1] != music {
		t.Error("music already in the target layout should be returned unchanged")
	}
}
