// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/apex/log"

	"github.com/ik5/voicemix"
	"github.com/ik5/voicemix/formats/ffmpeg"
	"github.com/ik5/voicemix/internal/config"
)

// newMixer builds the pipeline from configuration. enc overrides the
// ffmpeg MP3 encoder when not nil.
func newMixer(cfg *config.Config, enc voicemix.Encoder, logger log.Interface) *voicemix.Mixer {
	if err := ffmpeg.Available(cfg.Codec.FFmpegPath); err != nil {
		logger.WithError(err).Warn("ffmpeg missing: MP3 output and FLAC/M4A/AAC/WMA input will fail")
	}

	fallback := ffmpeg.Decoder{
		Binary:     cfg.Codec.FFmpegPath,
		SampleRate: cfg.Codec.DecodeSampleRate,
		Channels:   cfg.Codec.DecodeChannels,
	}
	if enc == nil {
		enc = ffmpeg.Encoder{Binary: cfg.Codec.FFmpegPath, Bitrate: cfg.Mix.Bitrate}
	}

	return voicemix.NewMixer(voicemix.NewRegistry(fallback), enc, voicemix.Options{
		FadeCapMs:   cfg.Mix.FadeCapMs,
		MusicGainDB: voicemix.GainDB(cfg.Mix.MusicGainDB),
	}, logger)
}
