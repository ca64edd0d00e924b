// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ik5/voicemix"
	"github.com/ik5/voicemix/formats/wav"
	"github.com/ik5/voicemix/internal/input"
)

func newMixCommand(ctx *commandContext) *cobra.Command {
	var speechPath, musicPath, outputPath string

	cmd := &cobra.Command{
		Use:   "mix",
		Short: "Mix two local files",
		Long: `Mix a speech file over a music file and write the result.

The output is MP3 unless the --output path ends in .wav, in which case a
16-bit WAV is written without needing ffmpeg.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			speech, err := readBlob(speechPath, "speech")
			if err != nil {
				return err
			}
			music, err := readBlob(musicPath, "music")
			if err != nil {
				return err
			}

			var enc voicemix.Encoder
			if strings.EqualFold(filepath.Ext(outputPath), ".wav") {
				enc = wav.Encoder{}
			}

			res, err := newMixer(cfg, enc, logger).Mix(speech, music)
			if err != nil {
				return err
			}

			target := outputPath
			if target == "" {
				target = res.Filename
			}
			if err := os.WriteFile(target, res.Data, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d ms, %d loops)\n",
				target, humanize.Bytes(uint64(len(res.Data))), res.SpeechMs, res.Loops)
			return nil
		},
	}

	cmd.Flags().StringVarP(&speechPath, "speech", "s", "", "Speech file")
	cmd.Flags().StringVarP(&musicPath, "music", "m", "", "Background music file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default mixed_<speech>_<music>.mp3)")
	_ = cmd.MarkFlagRequired("speech")
	_ = cmd.MarkFlagRequired("music")

	return cmd
}

func readBlob(path, role string) (*voicemix.Blob, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, voicemix.NewError(voicemix.MissingInput, role+" file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, voicemix.NewError(voicemix.MissingInput, fmt.Sprintf("%s file %s does not exist", role, path))
		}
		return nil, fmt.Errorf("read %s: %w", role, err)
	}

	name := filepath.Base(path)
	return &voicemix.Blob{
		Name:   name,
		Ext:    strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
		Stem:   input.Stem(name, role),
		Origin: voicemix.OriginFile,
		Data:   data,
	}, nil
}
