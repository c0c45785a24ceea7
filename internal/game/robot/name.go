package robot

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameLength bounds a robot name, before and after sanitising.
const MaxNameLength = 20

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	nonPrintable      = regexp.MustCompile(`[^\x20-\x7E]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeName validates and cleans a requested robot name: markup tags and
// non-printable or non-ASCII characters are stripped and whitespace runs
// collapse to one space.
//
// Postcondition: on success the result is 1..MaxNameLength printable ASCII
// characters with no leading or trailing space; otherwise the error is
// ErrInvalidName.
func SanitizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLength {
		return "", ErrInvalidName
	}
	name = tagPattern.ReplaceAllString(name, "")
	name = nonPrintable.ReplaceAllString(name, "")
	name = whitespacePattern.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
