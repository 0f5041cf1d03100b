package core

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var emailLikeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Clamp trims `s` and cuts it to maxLen characters, marking the cut with an ellipsis.
// An empty result means the value is absent.
func Clamp(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen]) + "…"
}

// NormalizeText lowers `s` and strips its diacritics so that "Mărăști" matches "marasti".
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// IsEmailLike is a loose check: something@something.tld, no whitespace.
func IsEmailLike(s string) bool {
	return emailLikeRegex.MatchString(strings.TrimSpace(s))
}

// RedactEmail keeps the first character of the local part and the domain: "j***@example.com".
func RedactEmail(s string) string {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 1 {
		return "***"
	}
	first, _ := utf8.DecodeRuneInString(s)
	return string(first) + "***" + s[at:]
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run,
// so the current directory is returned when no go.mod is found (e.g. deployed binaries).
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
