// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Format keys produced by Sniff and used as registry keys.
const (
	FormatWAV  = "wav"
	FormatAIFF = "aiff"
	FormatOgg  = "ogg"
	FormatMP3  = "mp3"
	FormatFLAC = "flac"
	FormatM4A  = "m4a"
	FormatAAC  = "aac"
	FormatWMA  = "wma"
)

// SniffLen is the number of leading bytes Sniff inspects.
const SniffLen = 16

var asfHeader = []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11}

// Sniff identifies the container from its magic bytes. It returns "" when
// nothing matches.
func Sniff(head []byte) string {
	switch {
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return FormatWAV
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("FORM")) &&
		(bytes.Equal(head[8:12], []byte("AIFF")) || bytes.Equal(head[8:12], []byte("AIFC"))):
		return FormatAIFF
	case bytes.HasPrefix(head, []byte("OggS")):
		return FormatOgg
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(head, []byte("ID3")):
		return FormatMP3
	case len(head) >= 8 && bytes.Equal(head[4:8], []byte("ftyp")):
		return FormatM4A
	case bytes.HasPrefix(head, asfHeader):
		return FormatWMA
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// ADTS shares the sync word but always carries layer 00
		if (head[1]>>1)&0x03 == 0 {
			return FormatAAC
		}
		return FormatMP3
	}
	return ""
}

var formatAliases = map[string]string{
	"wave": FormatWAV,
	"aif":  FormatAIFF,
	"aifc": FormatAIFF,
	"oga":  FormatOgg,
	"mpeg": FormatMP3,
	"mp4":  FormatM4A,
}

// NormalizeFormat lowercases an extension or format hint, drops a leading
// dot and folds known aliases.
func NormalizeFormat(hint string) string {
	hint = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(hint), "."))
	if alias, ok := formatAliases[hint]; ok {
		return alias
	}
	return hint
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// The fallback decoder handles anything without a dedicated entry.
type Registry struct {
	codecs   map[string]Decoder
	fallback Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[NormalizeFormat(format)] = d
}

// SetFallback installs the decoder used when no registered format matches.
func (r *Registry) SetFallback(d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.fallback = d
}

// Fallback returns the fallback decoder, or nil when none is installed.
func (r *Registry) Fallback() Decoder {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.fallback
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[NormalizeFormat(format)]
	return d, ok
}

// Lookup picks a decoder for data. Sniffed content wins over the hint; a
// sniffed format without a dedicated decoder goes to the fallback rather
// than trusting a possibly wrong extension. The returned string names the
// format that was matched ("" for the fallback).
func (r *Registry) Lookup(head []byte, hint string) (Decoder, string, error) {
	sniffed := Sniff(head)

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if sniffed != "" {
		if d, ok := r.codecs[sniffed]; ok {
			return d, sniffed, nil
		}
	} else if d, ok := r.codecs[NormalizeFormat(hint)]; ok {
		return d, NormalizeFormat(hint), nil
	}

	if r.fallback != nil {
		return r.fallback, "", nil
	}
	return nil, "", ErrNoDecoder
}
