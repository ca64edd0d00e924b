// SPDX-License-Identifier: EPL-2.0

package voicemix

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP layer can pick a status code and
// message without inspecting the cause.
type Kind int

const (
	ProcessingFailure Kind = iota
	MissingInput
	InvalidFileType
	NotAudioContent
	FetchFailure
	DecodeFailure
	PayloadTooLarge
)

var kindNames = map[Kind]string{
	ProcessingFailure: "processing_failure",
	MissingInput:      "missing_input",
	InvalidFileType:   "invalid_file_type",
	NotAudioContent:   "not_audio_content",
	FetchFailure:      "fetch_failure",
	DecodeFailure:     "decode_failure",
	PayloadTooLarge:   "payload_too_large",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var _ error = (*Error)(nil)

// Error is the tagged error returned by the resolver and the mixer.
// Message is safe to show to a client; Err carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError builds an Error without a cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an Error around cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that are not an *Error count as
// ProcessingFailure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ProcessingFailure
}
