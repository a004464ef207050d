package parser

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Layouts seen across the partner exports. dd/mm/yyyy variants MUST come
// before any mm/dd ambiguity; these files are never American-formatted.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"2006-Jan-02 15:04:05", // MoneyGram Envois: "2025-Apr-29 17:45:59"
	"2006-Jan-2 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006",
	"02-Jan-06",
}

// parseOperationDate tries the layout list, then falls back to Excel
// serial dates for sheets whose date cells come through as numbers.
func parseOperationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date string")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := parseExcelSerialDate(s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("could not parse date: " + s)
}

// parseExcelSerialDate converts an Excel serial date (possibly with a
// fractional day) into a time.Time. Excel counts from 1899-12-30 and
// includes a fake 1900-02-29 day.
func parseExcelSerialDate(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return time.Time{}, err
	}
	if f < 1 {
		return time.Time{}, errors.New("not an excel serial date")
	}
	days := int(f)
	frac := f - float64(days)
	// The 1899-12-30 epoch already accounts for Excel's fake
	// 1900-02-29; serials before that day sit one short of it.
	if days < 60 {
		days++
	}
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	d := base.AddDate(0, 0, days)
	d = d.Add(time.Duration(frac * float64(24*time.Hour)))
	return d, nil
}

// looksLikeDate reports whether the cell parses under a calendar layout.
// The Excel-serial fallback is deliberately excluded: a bare number must
// not make a row look date-led during structural detection.
func looksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
