// Package nameparse extracts structure from Figma layer names.
//
// Grammar:
//
//	token   = ^\d+              (left-padded with zeros to two digits)
//	prefix  = ^\d+[\s\-_.]*     (stripped by CleanName)
//	heading = ^h(\d+)           (case-insensitive)
//	slug    = lower(name) with runs of [^a-z0-9] replaced by "-", trimmed of "-"
package nameparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tokenPattern   = regexp.MustCompile(`^(\d+)`)
	prefixPattern  = regexp.MustCompile(`^\d+[\s\-_.]*`)
	spacePattern   = regexp.MustCompile(`\s+`)
	headingPattern = regexp.MustCompile(`(?i)^h(\d+)`)
	slugPattern    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Token returns the numeric prefix of name padded to at least two digits.
// "1 Blue" yields "01", "120 Grey" yields "120".
func Token(name string) (string, bool) {
	m := tokenPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	token := m[1]
	if len(token) < 2 {
		token = strings.Repeat("0", 2-len(token)) + token
	}
	return token, true
}

// CleanName strips the token prefix and its separators and normalizes
// whitespace. It may return an empty string for names that are only a prefix.
func CleanName(name string) string {
	name = prefixPattern.ReplaceAllString(name, "")
	name = spacePattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// HeadingLevel reports the level of names like "H2 Title" or "h10".
func HeadingLevel(name string) (int, bool) {
	m := headingPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return level, true
}

// IsHeading reports whether name starts with "h" followed by a digit.
func IsHeading(name string) bool {
	return headingPattern.MatchString(name)
}

// FileSlug converts a layer name into a filesystem-safe base name.
func FileSlug(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// CompareNumeric orders digit strings by numeric value, so "2" sorts before
// "10" and "02" before "10". Non-digit strings fall back to byte order.
func CompareNumeric(a, b string) int {
	if !isDigits(a) || !isDigits(b) {
		return strings.Compare(a, b)
	}
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	// Equal value: "2" before "02" keeps the order total.
	return strings.Compare(b, a)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
