// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with github.com/jfreymuth/oggvorbis.
//
// Output keeps the stream's channel count and sample rate. Samples are
// float32 in [-1.0, 1.0] as produced by the codec.
package vorbis
