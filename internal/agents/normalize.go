package agents

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRe    = regexp.MustCompile(`\s+`)
	trailingDigits  = regexp.MustCompile(`[0-9]+$`)
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	nonLetterRe     = regexp.MustCompile(`[^A-Z\s]`)
)

// NormalizeName reduces an agent label as a partner prints it to a
// canonical form, so that "JOHN  DOE 2", "John Doe (Moroni)" and
// "JOHN-DOE" all unify. Punctuation and accented characters are
// deleted, not spaced, so hyphenated and run-together spellings of the
// same name collapse to one key. Normalization is idempotent.
func NormalizeName(raw string) string {
	s := strings.TrimSpace(strings.ToUpper(raw))
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = trailingDigits.ReplaceAllString(s, "")
	s = parentheticalRe.ReplaceAllString(s, "")
	s = nonLetterRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
