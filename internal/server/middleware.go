// SPDX-License-Identifier: EPL-2.0

package server

import (
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ik5/voicemix"
	"github.com/ik5/voicemix/internal/input"
)

const (
	headerRequestID = "X-Request-ID"
	ctxLoggerKey    = "logger"
)

// requestID tags every request with an id, reusing a well formed incoming
// one, and stores a logger carrying it.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Set(ctxLoggerKey, s.logger.WithField("request_id", id))
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := requestLogger(c).WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"size":     humanize.Bytes(uint64(max(c.Writer.Size(), 0))),
			"duration": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request")
			return
		}
		entry.Info("request")
	}
}

// bodyLimit rejects a declared oversize body before anything reads it and
// caps the rest while they are parsed.
func (s *Server) bodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > s.opts.MaxBytes {
			s.fail(c, voicemix.NewError(voicemix.PayloadTooLarge, input.TooLargeMessage(s.opts.MaxBytes)))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBytes)
		c.Next()
	}
}

func (s *Server) recovered(c *gin.Context, err any) {
	requestLogger(c).WithField("panic", err).Error("handler panicked")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func requestLogger(c *gin.Context) *log.Entry {
	if v, ok := c.Get(ctxLoggerKey); ok {
		if entry, ok := v.(*log.Entry); ok {
			return entry
		}
	}
	return log.WithField("request_id", "")
}
