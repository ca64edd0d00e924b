// SPDX-License-Identifier: EPL-2.0

package config

const (
	defaultListen                   = "0.0.0.0:5000"
	defaultMaxUploadMB              = 100
	defaultReadHeaderTimeoutSeconds = 10
	defaultIdleTimeoutSeconds       = 120
	defaultShutdownTimeoutSeconds   = 15
	defaultFetchTimeoutSeconds      = 30
	defaultUserAgent                = "voicemix/dev"
	defaultFadeCapMs                = 5000
	defaultMusicGainDB              = -10.0
	defaultBitrate                  = "192k"
	defaultFFmpegPath               = "ffmpeg"
	defaultDecodeSampleRate         = 44100
	defaultDecodeChannels           = 2
	defaultLogLevel                 = "info"
	defaultLogFormat                = "text"
)

var defaultAllowedExtensions = []string{"mp3", "wav", "ogg", "flac", "m4a", "aac", "wma"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Listen:                   defaultListen,
			MaxUploadMB:              defaultMaxUploadMB,
			ReadHeaderTimeoutSeconds: defaultReadHeaderTimeoutSeconds,
			IdleTimeoutSeconds:       defaultIdleTimeoutSeconds,
			ShutdownTimeoutSeconds:   defaultShutdownTimeoutSeconds,
		},
		Upload: Upload{
			AllowedExtensions: append([]string(nil), defaultAllowedExtensions...),
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeoutSeconds,
			UserAgent:      defaultUserAgent,
		},
		Mix: Mix{
			FadeCapMs:   defaultFadeCapMs,
			MusicGainDB: defaultMusicGainDB,
			Bitrate:     defaultBitrate,
		},
		Codec: Codec{
			FFmpegPath:       defaultFFmpegPath,
			DecodeSampleRate: defaultDecodeSampleRate,
			DecodeChannels:   defaultDecodeChannels,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
