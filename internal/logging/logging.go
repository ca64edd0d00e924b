// SPDX-License-Identifier: EPL-2.0

// Package logging builds apex/log loggers from configuration.
package logging

import (
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// New returns a logger writing to w in format ("text", "json", "cli" or
// "discard") at level.
func New(level, format string, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	var handler log.Handler
	switch format {
	case "", "text":
		handler = text.New(w)
	case "json":
		handler = json.New(w)
	case "cli":
		handler = cli.New(w)
	case "discard":
		handler = discard.New()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return &log.Logger{Handler: handler, Level: lvl}, nil
}

// Setup builds a logger with New and installs it as the package default
// used by log.WithFields and friends.
func Setup(level, format string, w io.Writer) (*log.Logger, error) {
	logger, err := New(level, format, w)
	if err != nil {
		return nil, err
	}
	log.Log = logger
	return logger, nil
}
