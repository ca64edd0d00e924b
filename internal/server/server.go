// SPDX-License-Identifier: EPL-2.0

package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/ik5/voicemix"
	"github.com/ik5/voicemix/internal/input"
)

//go:embed templates/*.html
var templatesFS embed.FS

const sessionName = "voicemix"

// Resolver extracts both inputs from a request.
type Resolver interface {
	Resolve(r *http.Request) (speech, music *voicemix.Blob, err error)
}

// Mixer produces the mixed output.
type Mixer interface {
	Mix(speech, music *voicemix.Blob) (*voicemix.Result, error)
}

// Options configure the HTTP surface. Zero durations take the defaults.
type Options struct {
	MaxBytes          int64
	SecretKey         []byte
	AllowedExtensions []string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Server wires the resolver and mixer into a gin engine.
type Server struct {
	opts     Options
	resolver Resolver
	mixer    Mixer
	store    sessions.Store
	logger   log.Interface
	engine   *gin.Engine
}

// New builds the server and its routes. Without a secret key a random one
// is generated, so flash cookies do not survive a restart.
func New(opts Options, resolver Resolver, mixer Mixer, logger log.Interface) (*Server, error) {
	if logger == nil {
		logger = log.Log
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = input.DefaultMaxBytes
	}
	if len(opts.AllowedExtensions) == 0 {
		opts.AllowedExtensions = input.DefaultAllowedExtensions
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 120 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	if len(opts.SecretKey) == 0 {
		opts.SecretKey = securecookie.GenerateRandomKey(32)
		if opts.SecretKey == nil {
			return nil, errors.New("generate session key")
		}
		logger.Warn("no session secret configured, generated a random one")
	}

	store := sessions.NewCookieStore(opts.SecretKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		opts:     opts,
		resolver: resolver,
		mixer:    mixer,
		store:    store,
		logger:   logger,
	}

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(s.requestID(), s.accessLog(), gin.CustomRecovery(s.recovered))

	engine.GET("/", s.handleIndex)
	engine.GET("/health", s.handleHealth)
	engine.POST("/mix", s.bodyLimit(), s.handleMix)
	engine.NoRoute(s.handleNotFound)

	s.engine = engine
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	// no write timeout: mixing time grows with the input length
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		IdleTimeout:       s.opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	s.logger.WithField("address", listener.Addr().String()).Info("listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
