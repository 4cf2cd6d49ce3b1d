// Package filename turns scheme names into file names. Two strategies exist
// side by side: the legacy one keeps only [A-Za-z0-9_.-], the current one
// only replaces characters that filesystems reject. Files written by either
// strategy must keep resolving to the same names.
package filename

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxLength   = 255
	replacement = '_'
)

// Sanitize returns a file system safe name for a scheme name.
func Sanitize(name string, legacy bool) string {
	var out string
	if legacy {
		out = sanitizeLegacy(name)
	} else {
		out = sanitizeCurrent(name)
	}
	if out == "" {
		return string(replacement)
	}
	return out
}

// FileName returns the sanitized name with ext appended, truncated so the
// whole name fits in MaxLength bytes.
func FileName(name, ext string, legacy bool) string {
	base := truncate(Sanitize(name, legacy), MaxLength-len(ext))
	return base + ext
}

func sanitizeLegacy(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf && (isASCIIAlnum(r) || r == '_' || r == '.' || r == '-') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(replacement)
		}
	}
	return truncate(sb.String(), MaxLength)
}

func sanitizeCurrent(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r == utf8.RuneError || unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			sb.WriteRune(replacement)
			continue
		}
		sb.WriteRune(r)
	}
	out := strings.TrimRight(sb.String(), ". ")
	if out == "." || out == ".." {
		out = ""
	}
	return truncate(out, MaxLength)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
