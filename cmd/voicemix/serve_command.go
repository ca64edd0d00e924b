// SPDX-License-Identifier: EPL-2.0

package main

import (
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ik5/voicemix/internal/input"
	"github.com/ik5/voicemix/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP mixing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			addr := cfg.Server.Listen
			if strings.TrimSpace(listen) != "" {
				addr = strings.TrimSpace(listen)
			}

			if logger.Level != log.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}

			resolver := input.NewResolver(input.Options{
				AllowedExtensions: cfg.Upload.AllowedExtensions,
				MaxBytes:          cfg.MaxUploadBytes(),
				FetchTimeout:      cfg.FetchTimeout(),
				UserAgent:         cfg.Fetch.UserAgent,
			}, &http.Client{}, logger)

			srv, err := server.New(server.Options{
				MaxBytes:          cfg.MaxUploadBytes(),
				SecretKey:         []byte(cfg.Server.SecretKey),
				AllowedExtensions: cfg.Upload.AllowedExtensions,
				ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
				IdleTimeout:       cfg.IdleTimeout(),
				ShutdownTimeout:   cfg.ShutdownTimeout(),
			}, resolver, newMixer(cfg, nil, logger), logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Run(runCtx, addr)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address, overrides server.listen")
	return cmd
}
