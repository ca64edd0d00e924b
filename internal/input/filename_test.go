// SPDX-License-Identifier: EPL-2.0

package input

import "testing"

func TestSecureFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "My cool movie.mov", want: "My_cool_movie.mov"},
		{in: "../../../etc/passwd", want: "etc_passwd"},
		{in: "i contain cool \u00fcml\u00e4uts.txt", want: "i_contain_cool_umlauts.txt"},
		{in: `C:\Users\me\talk.mp3`, want: "C_Users_me_talk.mp3"},
		{in: "__init__.py", want: "init__.py"},
		{in: "\u65e5\u672c.mp3", want: "mp3"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := SecureFilename(tt.in); got != tt.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fallback string
		want     string
	}{
		{name: "voice over.mp3", fallback: "speech", want: "voice_over"},
		{name: "song.final.wav", fallback: "music", want: "song.final"},
		{name: "noext", fallback: "music", want: "noext"},
		{name: "", fallback: "speech", want: "speech"},
		{name: "...", fallback: "music", want: "music"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Stem(tt.name, tt.fallback); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestURLStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "/files/My Song.mp3", want: "My_Song"},
		{path: "/stream", want: "stream"},
		{path: "/", want: "music"},
		{path: "", want: "music"},
	}

	for _, tt := range tests {
		if got := urlStem(tt.path, "music"); got != tt.want {
			t.Errorf("urlStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "a.MP3", want: "mp3", wantOK: true},
		{name: "a.tar.gz", want: "gz", wantOK: true},
		{name: "trailing.", want: "", wantOK: true},
		{name: "none", want: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := extension(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("extension(%q) = %q, %v, want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}
