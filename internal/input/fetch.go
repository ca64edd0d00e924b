// SPDX-License-Identifier: EPL-2.0

package input

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/ik5/voicemix"
)

const fetchChunk = 8 << 10

// audioTypeMarkers accept a response by its content type alone.
var audioTypeMarkers = []string{"audio", "mpeg", "mp3", "wav", "ogg"}

// audioSuffixes accept a response by the URL path when the content type
// is generic.
var audioSuffixes = []string{".mp3", ".wav", ".ogg", ".flac", ".m4a", ".aac"}

// mediaTypeExt maps common audio content types to a decoder hint for URLs
// without an extension.
var mediaTypeExt = map[string]string{
	"audio/mpeg":   "mp3",
	"audio/mp3":    "mp3",
	"audio/wav":    "wav",
	"audio/x-wav":  "wav",
	"audio/wave":   "wav",
	"audio/ogg":    "ogg",
	"audio/flac":   "flac",
	"audio/x-flac": "flac",
	"audio/aac":    "aac",
	"audio/mp4":    "m4a",
	"audio/x-m4a":  "m4a",
	"audio/aiff":   "aiff",
	"audio/x-aiff": "aiff",
}

var errStatus = errors.New("unexpected status")

func (r *Resolver) resolveURLs(req *http.Request, urls urlRequest) (*voicemix.Blob, *voicemix.Blob, error) {
	speech, err := r.fetch(req.Context(), urls.SpeechURL, "speech")
	if err != nil {
		return nil, nil, err
	}
	music, err := r.fetch(req.Context(), urls.MusicURL, "music")
	if err != nil {
		return nil, nil, err
	}
	return speech, music, nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL, role string) (*voicemix.Blob, error) {
	failed := func(err error) error {
		return voicemix.WrapError(voicemix.FetchFailure, fmt.Sprintf("Failed to download %s audio", role), err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, failed(err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, failed(fmt.Errorf("unsupported URL scheme %q", u.Scheme))
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.FetchTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, failed(err)
	}
	if r.opts.UserAgent != "" {
		httpReq.Header.Set("User-Agent", r.opts.UserAgent)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, failed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failed(fmt.Errorf("%w: %s", errStatus, resp.Status))
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !looksLikeAudio(contentType, u.Path) {
		return nil, voicemix.NewError(voicemix.NotAudioContent,
			fmt.Sprintf("URL for %s does not point to an audio file.", role))
	}

	if resp.ContentLength > r.opts.MaxBytes {
		return nil, voicemix.NewError(voicemix.PayloadTooLarge, TooLargeMessage(r.opts.MaxBytes))
	}

	data, err := r.readCapped(resp.Body)
	if err != nil {
		return nil, err
	}

	blob := &voicemix.Blob{
		Name:   rawURL,
		Ext:    urlExt(u.Path, contentType),
		Stem:   urlStem(u.Path, role),
		Origin: voicemix.OriginURL,
		Data:   data,
	}

	r.logger.WithFields(log.Fields{
		"url":          rawURL,
		"status":       resp.StatusCode,
		"content_type": contentType,
		"size":         humanize.Bytes(uint64(len(data))),
	}).Debug("fetched " + role)

	return blob, nil
}

// readCapped reads body in fixed chunks and fails once it passes the size
// cap.
func (r *Resolver) readCapped(body io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, fetchChunk)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			if int64(buf.Len()+n) > r.opts.MaxBytes {
				return nil, voicemix.NewError(voicemix.PayloadTooLarge, TooLargeMessage(r.opts.MaxBytes))
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, voicemix.WrapError(voicemix.FetchFailure, "Failed to read downloaded audio", err)
		}
	}
}

func looksLikeAudio(contentType, urlPath string) bool {
	for _, marker := range audioTypeMarkers {
		if strings.Contains(contentType, marker) {
			return true
		}
	}

	p := strings.ToLower(urlPath)
	for _, suffix := range audioSuffixes {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

func urlExt(urlPath, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(urlPath)), "."); ext != "" {
		return ext
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mediaTypeExt[mediaType]
}
