// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/ik5/voicemix/audio"
	"github.com/ik5/voicemix/utils"
)

// Decoder converts anything ffmpeg understands (FLAC, M4A, AAC, WMA, ...)
// into PCM at a fixed layout. The input is spooled to a temporary file
// because MP4-family containers need to seek.
type Decoder struct {
	Binary     string
	SampleRate int
	Channels   int
}

func (d Decoder) layout() (int, int) {
	rate, ch := d.SampleRate, d.Channels
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if ch <= 0 {
		ch = DefaultChannels
	}
	return rate, ch
}

func (d Decoder) args(input string) []string {
	rate, ch := d.layout()
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", input,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(rate),
		"-ac", strconv.Itoa(ch),
		"pipe:1",
	}
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	tmp, err := os.CreateTemp("", "voicemix-decode-*")
	if err != nil {
		return nil, fmt.Errorf("create temp input: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("spool input: %w", err)
	}

	var out bytes.Buffer
	cmd := exec.Command(binaryOr(d.Binary), d.args(tmp.Name())...)
	cmd.Stdout = &out
	if err := run(cmd); err != nil {
		return nil, err
	}

	rate, ch := d.layout()
	return newPCMSource(out.Bytes(), rate, ch), nil
}

// pcmSource serves already decoded s16le bytes.
type pcmSource struct {
	data       []byte
	pos        int
	sampleRate int
	channels   int
}

func newPCMSource(data []byte, rate, channels int) *pcmSource {
	// keep whole frames only
	frame := 2 * channels
	data = data[:len(data)-len(data)%frame]
	return &pcmSource{data: data, sampleRate: rate, channels: channels}
}

func (s *pcmSource) SampleRate() int { return s.sampleRate }
func (s *pcmSource) Channels() int   { return s.channels }
func (s *pcmSource) BufSize() int    { return 8192 }
func (s *pcmSource) Close() error    { return nil }

func (s *pcmSource) ReadSamples(dst []float32) (int, error) {
	remaining := (len(s.data) - s.pos) / 2
	if remaining == 0 {
		return 0, io.EOF
	}

	n := min(len(dst), remaining)
	for i := range n {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.data[s.pos+2*i:])))
	}
	s.pos += 2 * n

	if s.pos >= len(s.data) {
		return n, io.EOF
	}
	return n, nil
}
