// SPDX-License-Identifier: EPL-2.0

// Package input turns a /mix request into the two blobs the mixer needs.
//
// When both speech_url and music_url are present the audio is downloaded,
// otherwise the request must carry the speech and music file fields. Every
// failure is a *voicemix.Error so the HTTP layer can map it to a status.
package input
