// SPDX-License-Identifier: EPL-2.0

package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/ik5/voicemix"
)

// Messages shown to clients.
const (
	MsgFilesRequired = "Both speech and music files are required."
	MsgSelectFiles   = "Please select both speech and music files."
)

const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBytes     = 100 << 20

	// multipart parts above this are spooled to disk by net/http
	formMemory = 32 << 20
)

// DefaultAllowedExtensions are the upload extensions accepted when none are
// configured.
var DefaultAllowedExtensions = []string{"mp3", "wav", "ogg", "flac", "m4a", "aac", "wma"}

// TooLargeMessage is the client message for bodies over maxBytes.
func TooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", maxBytes>>20)
}

// InvalidTypeMessage lists the accepted extensions.
func InvalidTypeMessage(allowed []string) string {
	return "Invalid file type. Allowed types: " + strings.Join(allowed, ", ")
}

// Options configure a Resolver. Zero values take the defaults.
type Options struct {
	AllowedExtensions []string
	MaxBytes          int64
	FetchTimeout      time.Duration
	UserAgent         string
}

// Resolver extracts the speech and music blobs from a request.
type Resolver struct {
	opts   Options
	client *http.Client
	logger log.Interface
}

// NewResolver builds a Resolver. client is used for URL mode and may be
// nil; the fetch timeout is applied per request through the context.
func NewResolver(opts Options, client *http.Client, logger log.Interface) *Resolver {
	if len(opts.AllowedExtensions) == 0 {
		opts.AllowedExtensions = DefaultAllowedExtensions
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = log.Log
	}
	return &Resolver{opts: opts, client: client, logger: logger}
}

// MaxBytes is the effective size cap for bodies and downloads.
func (r *Resolver) MaxBytes() int64 {
	return r.opts.MaxBytes
}

// urlRequest is the JSON body accepted by API clients in URL mode.
type urlRequest struct {
	SpeechURL string `json:"speech_url"`
	MusicURL  string `json:"music_url"`
}

// Resolve reads the request and returns the speech and music blobs. The
// caller is expected to have capped the body size already.
func (r *Resolver) Resolve(req *http.Request) (*voicemix.Blob, *voicemix.Blob, error) {
	urls, err := r.parse(req)
	if err != nil {
		return nil, nil, err
	}

	if urls.SpeechURL != "" && urls.MusicURL != "" {
		return r.resolveURLs(req, urls)
	}
	return r.resolveUploads(req)
}

func (r *Resolver) parse(req *http.Request) (urlRequest, error) {
	var urls urlRequest

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(req.Body).Decode(&urls)
		if err != nil && !errors.Is(err, io.EOF) {
			if tooLarge(err) {
				return urls, voicemix.WrapError(voicemix.PayloadTooLarge, TooLargeMessage(r.opts.MaxBytes), err)
			}
			return urls, voicemix.WrapError(voicemix.MissingInput, MsgFilesRequired, err)
		}
	} else {
		err := req.ParseMultipartForm(formMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			if tooLarge(err) {
				return urls, voicemix.WrapError(voicemix.PayloadTooLarge, TooLargeMessage(r.opts.MaxBytes), err)
			}
			return urls, voicemix.WrapError(voicemix.MissingInput, MsgFilesRequired, err)
		}
		urls.SpeechURL = req.FormValue("speech_url")
		urls.MusicURL = req.FormValue("music_url")
	}

	urls.SpeechURL = strings.TrimSpace(urls.SpeechURL)
	urls.MusicURL = strings.TrimSpace(urls.MusicURL)
	return urls, nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (r *Resolver) resolveUploads(req *http.Request) (*voicemix.Blob, *voicemix.Blob, error) {
	speechFile, speechSent := formFile(req.MultipartForm, "speech")
	musicFile, musicSent := formFile(req.MultipartForm, "music")

	if !speechSent || !musicSent {
		return nil, nil, voicemix.NewError(voicemix.MissingInput, MsgFilesRequired)
	}
	if speechFile == nil || musicFile == nil {
		return nil, nil, voicemix.NewError(voicemix.MissingInput, MsgSelectFiles)
	}
	if !r.allowed(speechFile.Filename) || !r.allowed(musicFile.Filename) {
		return nil, nil, voicemix.NewError(voicemix.InvalidFileType, InvalidTypeMessage(r.opts.AllowedExtensions))
	}

	speech, err := readUpload(speechFile, "speech")
	if err != nil {
		return nil, nil, err
	}
	music, err := readUpload(musicFile, "music")
	if err != nil {
		return nil, nil, err
	}

	r.logger.WithFields(log.Fields{
		"speech": speech.Name,
		"music":  music.Name,
	}).Debug("resolved uploads")

	return speech, music, nil
}

// formFile returns the file header for field and whether the field was
// sent at all. A file input left empty by a browser arrives with an empty
// filename, which net/http files under the plain values.
func formFile(form *multipart.Form, field string) (*multipart.FileHeader, bool) {
	if form == nil {
		return nil, false
	}
	if files := form.File[field]; len(files) > 0 {
		if files[0].Filename == "" {
			return nil, true
		}
		return files[0], true
	}
	_, sent := form.Value[field]
	return nil, sent
}

func (r *Resolver) allowed(filename string) bool {
	ext, ok := extension(filename)
	return ok && slices.Contains(r.opts.AllowedExtensions, ext)
}

func readUpload(fh *multipart.FileHeader, role string) (*voicemix.Blob, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, voicemix.WrapError(voicemix.MissingInput, fmt.Sprintf("Could not read %s file.", role), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, voicemix.WrapError(voicemix.MissingInput, fmt.Sprintf("Could not read %s file.", role), err)
	}

	ext, _ := extension(fh.Filename)
	return &voicemix.Blob{
		Name:   fh.Filename,
		Ext:    ext,
		Stem:   Stem(fh.Filename, role),
		Origin: voicemix.OriginUpload,
		Data:   data,
	}, nil
}
