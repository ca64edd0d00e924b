// SPDX-License-Identifier: EPL-2.0

package server

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/ik5/voicemix"
	"github.com/ik5/voicemix/internal/input"
)

// strategy decides how a failed /mix is reported.
type strategy int

const (
	// strategyAPI answers with a JSON error and a status code.
	strategyAPI strategy = iota
	// strategyBrowser flashes the error and redirects to the form.
	strategyBrowser
)

func (st strategy) String() string {
	if st == strategyBrowser {
		return "browser"
	}
	return "api"
}

// responseStrategy picks the browser flow only for form submissions from
// clients that accept HTML.
func responseStrategy(r *http.Request) strategy {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return strategyAPI
	}
	if mediaType != "multipart/form-data" && mediaType != "application/x-www-form-urlencoded" {
		return strategyAPI
	}
	if acceptsHTML(r.Header.Get("Accept")) {
		return strategyBrowser
	}
	return strategyAPI
}

// acceptsHTML reports whether an Accept header lists an HTML type with a
// non-zero quality. Wildcards do not count; curl sends */* by default.
func acceptsHTML(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
			continue
		}
		if q, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v <= 0 {
				continue
			}
		}
		return true
	}
	return false
}

// describe maps an error to the status and client message.
func (s *Server) describe(err error) (int, string) {
	var e *voicemix.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "Error processing audio files: " + err.Error()
	}

	switch e.Kind {
	case voicemix.MissingInput, voicemix.InvalidFileType, voicemix.NotAudioContent:
		return http.StatusBadRequest, e.Message
	case voicemix.FetchFailure:
		return http.StatusBadRequest, e.Error()
	case voicemix.PayloadTooLarge:
		return http.StatusRequestEntityTooLarge, input.TooLargeMessage(s.opts.MaxBytes)
	default:
		return http.StatusInternalServerError, "Error processing audio files: " + e.Error()
	}
}

// fail reports err with the strategy the request asks for.
func (s *Server) fail(c *gin.Context, err error) {
	status, msg := s.describe(err)
	st := responseStrategy(c.Request)

	entry := requestLogger(c).WithError(err).WithFields(log.Fields{
		"kind":     voicemix.KindOf(err).String(),
		"status":   status,
		"strategy": st.String(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("mix failed")
	} else {
		entry.Warn("mix rejected")
	}

	if st == strategyBrowser {
		if ferr := s.addFlash(c, msg); ferr != nil {
			requestLogger(c).WithError(ferr).Error("saving flash")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

func (s *Server) addFlash(c *gin.Context, msg string) error {
	session, err := s.store.Get(c.Request, sessionName)
	if err != nil && session == nil {
		return err
	}
	session.AddFlash(msg, "error")
	return session.Save(c.Request, c.Writer)
}

// popFlashes returns pending error messages and clears them.
func (s *Server) popFlashes(c *gin.Context) []string {
	session, err := s.store.Get(c.Request, sessionName)
	if session == nil {
		return nil
	}
	if err != nil {
		// tampered or signed with an old key; start over
		requestLogger(c).WithError(err).Debug("discarding session")
	}

	raw := session.Flashes("error")
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(c.Request, c.Writer); err != nil {
		requestLogger(c).WithError(err).Error("clearing flashes")
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if msg, ok := v.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
