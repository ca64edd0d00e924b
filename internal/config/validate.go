// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
)

var (
	bitratePattern = regexp.MustCompile(`^[0-9]{2,3}k$`)
	logLevels      = []string{"debug", "info", "warn", "error", "fatal"}
	logFormats     = []string{"text", "json", "cli", "discard"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateMix(); err != nil {
		return err
	}
	if err := c.validateCodec(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Listen == "" {
		return errors.New("server.listen must be set")
	}
	if c.Server.MaxUploadMB < 1 {
		return errors.New("server.max_upload_mb must be positive")
	}
	if c.Server.ReadHeaderTimeoutSeconds < 1 || c.Server.IdleTimeoutSeconds < 1 || c.Server.ShutdownTimeoutSeconds < 1 {
		return errors.New("server timeouts must be positive")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds < 1 {
		return errors.New("fetch.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMix() error {
	if c.Mix.FadeCapMs < 1 {
		return errors.New("mix.fade_cap_ms must be positive")
	}
	if c.Mix.MusicGainDB > 0 || c.Mix.MusicGainDB < -60 {
		return fmt.Errorf("mix.music_gain_db must be between -60 and 0, got %v", c.Mix.MusicGainDB)
	}
	if !bitratePattern.MatchString(c.Mix.Bitrate) {
		return fmt.Errorf("mix.bitrate must look like 192k, got %q", c.Mix.Bitrate)
	}
	return nil
}

func (c *Config) validateCodec() error {
	if c.Codec.DecodeSampleRate < 8000 || c.Codec.DecodeSampleRate > 192000 {
		return fmt.Errorf("codec.decode_sample_rate out of range: %d", c.Codec.DecodeSampleRate)
	}
	if c.Codec.DecodeChannels < 1 || c.Codec.DecodeChannels > 8 {
		return fmt.Errorf("codec.decode_channels out of range: %d", c.Codec.DecodeChannels)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", logLevels, c.Logging.Level)
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", logFormats, c.Logging.Format)
	}
	return nil
}
