// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields stereo float32 samples in [-1.0, 1.0] at the
// file's sample rate; mono files are duplicated to both channels by go-mp3.
// MP3 writing lives in the ffmpeg package.
//
//	source, err := mp3.Decoder{}.Decode(bytes.NewReader(data))
package mp3
