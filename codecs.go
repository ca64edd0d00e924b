// SPDX-License-Identifier: EPL-2.0

package voicemix

import (
	"github.com/ik5/voicemix/audio"
	"github.com/ik5/voicemix/formats/aiff"
	"github.com/ik5/voicemix/formats/mp3"
	"github.com/ik5/voicemix/formats/vorbis"
	"github.com/ik5/voicemix/formats/wav"
)

// NewRegistry returns a registry with every pure Go decoder registered.
// fallback, when not nil, handles the remaining formats.
func NewRegistry(fallback audio.Decoder) *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(audio.FormatWAV, wav.Decoder{})
	reg.Register(audio.FormatMP3, mp3.Decoder{})
	reg.Register(audio.FormatOgg, vorbis.Decoder{})
	reg.Register(audio.FormatAIFF, aiff.Decoder{})

	if fallback != nil {
		reg.SetFallback(fallback)
	}
	return reg
}
