// Package format normalizes the date and amount strings that come out of
// scanned insurance forms. Both functions are total: anything that doesn't
// parse falls through unchanged rather than failing.
package format

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"2 Jan 2006",
	"2 January 2006",
}

var nonNumeric = regexp.MustCompile(`[^0-9.,]`)

// NormalizeDate re-renders a date string as DD/MM/YYYY. Inputs that match
// none of the accepted layouts are returned as-is; empty input stays empty.
// Idempotent: DD/MM/YYYY output is also the first accepted layout.
func NormalizeDate(in string) string {
	if in == "" {
		return ""
	}
	trimmed := strings.TrimSpace(in)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return in
}

// FormatNumeric renders an amount-like string with thousands separators and
// no decimal places, e.g. "LKR 4,500,000.00" -> "4,500,000". Characters other
// than digits, commas and periods are stripped first. If the remainder does
// not parse as a number the stripped string is returned unchanged.
func FormatNumeric(in string) string {
	if in == "" {
		return ""
	}
	stripped := nonNumeric.ReplaceAllString(in, "")
	v, err := strconv.ParseFloat(strings.ReplaceAll(stripped, ",", ""), 64)
	if err != nil {
		return stripped
	}
	return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
}

// groupThousands inserts commas into a plain integer string.
func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
