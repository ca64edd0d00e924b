// SPDX-License-Identifier: EPL-2.0

package voicemix

import "fmt"

// Origin tells where a Blob came from.
type Origin string

const (
	OriginUpload Origin = "upload"
	OriginURL    Origin = "url"
	OriginFile   Origin = "file"
)

// Blob is one encoded input, not yet decoded.
type Blob struct {
	// Name is the uploaded filename, the URL or the local path.
	Name string
	// Ext is the lowercased extension without the dot. It is only a hint
	// for decoder selection and may be empty.
	Ext string
	// Stem is the sanitized base name used for the output filename.
	Stem   string
	Origin Origin
	Data   []byte
}

// Result is a finished mix.
type Result struct {
	Data     []byte
	Filename string

	SpeechMs int64
	Loops    int
	FadeMs   int64
}

// OutputFilename names the mixed file after both inputs.
func OutputFilename(speechStem, musicStem string) string {
	return fmt.Sprintf("mixed_%s_%s.mp3", speechStem, musicStem)
}
