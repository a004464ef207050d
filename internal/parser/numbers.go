package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

const nbsp = " "

// parseAmount turns a vendor-formatted amount cell into an absolute
// decimal. Two encodings show up in the exports: anglo "1,234.56" with
// comma thousands separators, and the KMF style "49 200,00 KMF" with
// space (or NBSP) thousands and a decimal comma, possibly followed by a
// currency unit. Missing or unparseable cells yield zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, nbsp, " "))
	if s == "" {
		return decimal.Zero
	}
	// Strip a trailing alphabetic currency unit ("KMF", "EUR").
	fields := strings.Fields(s)
	if len(fields) > 1 && isAlpha(fields[len(fields)-1]) {
		fields = fields[:len(fields)-1]
	}
	s = strings.Join(fields, "")

	if strings.Contains(s, ",") && !strings.Contains(s, ".") && decimalCommaLikely(s) {
		// "49200,00" -> decimal comma
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		// "1,234.56" -> grouping commas
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// decimalCommaLikely reports whether the single comma in s reads as a
// decimal mark (exactly one, followed by at most two digits) rather
// than a thousands separator.
func decimalCommaLikely(s string) bool {
	if strings.Count(s, ",") != 1 {
		return false
	}
	idx := strings.Index(s, ",")
	return len(s)-idx-1 <= 2
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return len(s) > 0
}

// parseSequence extracts the leading integer of a sequence cell; zero
// when absent, matching the legacy importer.
func parseSequence(s string) int64 {
	s = strings.TrimSpace(s)
	var n int64
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int64(r-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return n
}
