// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV audio.
//
// Decoding is done with github.com/go-audio/wav, so files with extra chunks
// (LIST, fact, bext) before the data chunk decode fine. Integer PCM at 8, 16,
// 24 and 32 bits is supported; float and compressed WAV are rejected with
// ErrOnlyPCMSupported.
//
//	source, err := wav.Decoder{}.Decode(bytes.NewReader(data))
//
// WritePCM16 and WriteTrack produce a canonical 16-bit PCM file. The header
// is written up front with final sizes, so the writer may be a pipe; the
// ffmpeg encoder relies on that.
package wav
