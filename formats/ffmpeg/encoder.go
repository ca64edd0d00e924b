// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/ik5/voicemix/audio"
	"github.com/ik5/voicemix/formats/wav"
)

// Encoder produces MP3 with libmp3lame. The track is streamed to ffmpeg's
// stdin as 16-bit WAV so ffmpeg learns the layout from the header.
type Encoder struct {
	Binary  string
	Bitrate string
}

func (e Encoder) args() []string {
	bitrate := e.Bitrate
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "wav",
		"-i", "pipe:0",
		"-vn",
		"-codec:a", "libmp3lame",
		"-b:a", bitrate,
		"-f", "mp3",
		"pipe:1",
	}
}

// Encode writes t to w as MP3.
func (e Encoder) Encode(w io.Writer, t *audio.Track) error {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(wav.WriteTrack(pw, t))
	}()
	defer pr.Close()

	cmd := exec.Command(binaryOr(e.Binary), e.args()...)
	cmd.Stdin = pr
	cmd.Stdout = w
	if err := run(cmd); err != nil {
		return fmt.Errorf("mp3 encode: %w", err)
	}
	return nil
}
