package search

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/unicode/norm"
)

// Provider phone numbers are Korean.
const phoneRegion = "KR"

// NormalizeQuery trims, collapses inner whitespace and applies NFKC so
// full-width input searches the same as half-width.
func NormalizeQuery(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFKC.String(s)
}

// firstNonEmpty is the fallback chain used for every optional field.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// normalizePhone formats a valid number in national format and keeps
// anything unparsable as typed.
func normalizePhone(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	number, err := phonenumbers.Parse(trimmed, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.NATIONAL)
}

// parseCoord parses a provider coordinate string.
func parseCoord(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func lastPage(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
