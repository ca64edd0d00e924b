// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF audio using github.com/go-audio/aiff.
//
// Samples are normalized to float32 in [-1.0, 1.0] from 8, 16, 24 or 32-bit
// big-endian PCM. The decoder needs an io.ReadSeeker; other readers are
// buffered into memory first.
package aiff
