// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Environment variables that override the file.
const (
	EnvSessionSecret = "SESSION_SECRET"
	EnvListen        = "VOICEMIX_LISTEN"
	EnvLogLevel      = "VOICEMIX_LOG_LEVEL"
	EnvFFmpeg        = "VOICEMIX_FFMPEG"
	EnvFadeCapMs     = "VOICEMIX_FADE_CAP_MS"
)

func (c *Config) applyEnv() error {
	if value, ok := os.LookupEnv(EnvSessionSecret); ok {
		c.Server.SecretKey = value
	}
	if value, ok := os.LookupEnv(EnvListen); ok {
		c.Server.Listen = value
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv(EnvFFmpeg); ok {
		c.Codec.FFmpegPath = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvFadeCapMs)); value != "" {
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFadeCapMs, err)
		}
		c.Mix.FadeCapMs = ms
	}
	return nil
}

func (c *Config) normalize() {
	c.normalizeServer()
	c.normalizeUpload()
	c.normalizeFetch()
	c.normalizeMix()
	c.normalizeCodec()
	c.normalizeLogging()
}

func (c *Config) normalizeServer() {
	c.Server.Listen = strings.TrimSpace(c.Server.Listen)
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = defaultMaxUploadMB
	}
	if c.Server.ReadHeaderTimeoutSeconds == 0 {
		c.Server.ReadHeaderTimeoutSeconds = defaultReadHeaderTimeoutSeconds
	}
	if c.Server.IdleTimeoutSeconds == 0 {
		c.Server.IdleTimeoutSeconds = defaultIdleTimeoutSeconds
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = defaultShutdownTimeoutSeconds
	}
}

// normalizeUpload lowercases extensions, strips dots and drops duplicates
// while keeping the configured order for the error message.
func (c *Config) normalizeUpload() {
	seen := make([]string, 0, len(c.Upload.AllowedExtensions))
	for _, ext := range c.Upload.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" || slices.Contains(seen, ext) {
			continue
		}
		seen = append(seen, ext)
	}
	if len(seen) == 0 {
		seen = append(seen, defaultAllowedExtensions...)
	}
	c.Upload.AllowedExtensions = seen
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeMix() {
	if c.Mix.FadeCapMs == 0 {
		c.Mix.FadeCapMs = defaultFadeCapMs
	}
	c.Mix.Bitrate = strings.ToLower(strings.TrimSpace(c.Mix.Bitrate))
	if c.Mix.Bitrate == "" {
		c.Mix.Bitrate = defaultBitrate
	}
}

func (c *Config) normalizeCodec() {
	c.Codec.FFmpegPath = strings.TrimSpace(c.Codec.FFmpegPath)
	if c.Codec.FFmpegPath == "" {
		c.Codec.FFmpegPath = defaultFFmpegPath
	}
	if c.Codec.DecodeSampleRate == 0 {
		c.Codec.DecodeSampleRate = defaultDecodeSampleRate
	}
	if c.Codec.DecodeChannels == 0 {
		c.Codec.DecodeChannels = defaultDecodeChannels
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
