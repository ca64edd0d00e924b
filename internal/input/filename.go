// SPDX-License-Identifier: EPL-2.0

package input

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var separatorReplacer = strings.NewReplacer("/", " ", `\`, " ")

// SecureFilename reduces name to a safe ASCII filename: compatibility
// decomposition, non-ASCII dropped, path separators and whitespace runs
// turned into underscores, anything outside [A-Za-z0-9_.-] removed and
// leading or trailing dots and underscores trimmed. The result may be
// empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	name = separatorReplacer.Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Stem is the sanitized name without its last extension, or fallback when
// nothing usable is left.
func Stem(name, fallback string) string {
	s := SecureFilename(name)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return fallback
	}
	return s
}

// extension returns the lowercased text after the last dot, and whether
// there was a dot at all.
func extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return strings.ToLower(name[i+1:]), true
}

// urlStem names a downloaded blob after the last path segment.
func urlStem(urlPath, fallback string) string {
	base := path.Base(urlPath)
	if base == "." || base == "/" {
		return fallback
	}
	return Stem(base, fallback)
}
