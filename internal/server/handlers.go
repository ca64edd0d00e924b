// SPDX-License-Identifier: EPL-2.0

package server

import (
	"mime"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

type indexPage struct {
	Flashes     []string
	Allowed     string
	Accept      string
	MaxUploadMB int64
	NotFound    bool
}

func (s *Server) page(c *gin.Context, notFound bool) indexPage {
	accept := make([]string, len(s.opts.AllowedExtensions))
	for i, ext := range s.opts.AllowedExtensions {
		accept[i] = "." + ext
	}
	return indexPage{
		Flashes:     s.popFlashes(c),
		Allowed:     strings.Join(s.opts.AllowedExtensions, ", "),
		Accept:      strings.Join(accept, ","),
		MaxUploadMB: s.opts.MaxBytes >> 20,
		NotFound:    notFound,
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.page(c, false))
}

func (s *Server) handleNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "index.html", s.page(c, true))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Audio mixer service is running",
	})
}

func (s *Server) handleMix(c *gin.Context) {
	logger := requestLogger(c)

	speech, music, err := s.resolver.Resolve(c.Request)
	if err != nil {
		s.fail(c, err)
		return
	}

	logger.WithFields(log.Fields{
		"speech": speech.Name,
		"music":  music.Name,
		"origin": string(speech.Origin),
		"input":  humanize.Bytes(uint64(len(speech.Data) + len(music.Data))),
	}).Debug("processing files")

	res, err := s.mixer.Mix(speech, music)
	if err != nil {
		s.fail(c, err)
		return
	}

	logger.WithFields(log.Fields{
		"filename":  res.Filename,
		"speech_ms": res.SpeechMs,
		"loops":     res.Loops,
		"fade_ms":   res.FadeMs,
	}).Info("sending mixed audio")

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	c.Data(http.StatusOK, "audio/mpeg", res.Data)
}
