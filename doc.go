// SPDX-License-Identifier: EPL-2.0

// Package voicemix lays a speech recording over background music.
//
// The music is looped until it covers the speech, trimmed to the speech
// length, lowered by 10 dB, faded out over the last five seconds (or the
// whole track when shorter) and then the speech is overlaid from the start.
// The result is encoded by the Encoder given to the Mixer, normally
// ffmpeg.Encoder producing 192 kbps MP3:
//
//	reg := voicemix.NewRegistry(ffmpeg.Decoder{})
//	mixer := voicemix.NewMixer(reg, ffmpeg.Encoder{}, voicemix.Options{}, log.Log)
//	res, err := mixer.Mix(speech, music)
//
// Inputs arrive as Blob values holding the encoded bytes. Decoders are
// chosen by content first and by the extension second, see audio.Registry.
// All failures are *Error values tagged with a Kind.
//
// The HTTP service lives in internal/server and the command line in
// cmd/voicemix.
package voicemix
