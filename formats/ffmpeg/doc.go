// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg wraps the ffmpeg binary for the formats the pure Go
// decoders do not cover, and for MP3 encoding.
//
// Decoder is registered as the registry fallback. It always outputs the
// configured layout (44.1 kHz stereo by default):
//
//	reg.SetFallback(ffmpeg.Decoder{Binary: "ffmpeg"})
//
// Encoder writes constant bitrate MP3 with libmp3lame:
//
//	err := ffmpeg.Encoder{Bitrate: "192k"}.Encode(&buf, track)
package ffmpeg
