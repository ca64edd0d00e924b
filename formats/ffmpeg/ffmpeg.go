// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	DefaultBinary     = "ffmpeg"
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	DefaultBitrate    = "192k"
)

var (
	ErrFFmpeg       = errors.New("ffmpeg failed")
	ErrNotAvailable = errors.New("ffmpeg binary not found")
)

// Available reports whether the ffmpeg binary can be found.
func Available(binary string) error {
	if binary == "" {
		binary = DefaultBinary
	}
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotAvailable, binary, err)
	}
	return nil
}

// run executes cmd and folds stderr into the returned error.
func run(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%w: %w", ErrFFmpeg, err)
		}
		return fmt.Errorf("%w: %w: %s", ErrFFmpeg, err, msg)
	}
	return nil
}

func binaryOr(path string) string {
	if path == "" {
		return DefaultBinary
	}
	return path
}
