package models

import (
	"strconv"
	"strings"
	"unicode"
)

// ParsePrice extracts the numeric value from a raw price string such as
// "1.299,99 €", "12," or "$19.99". No currency conversion happens.
func ParsePrice(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ".,")
	if s == "" {
		return 0, false
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Whichever separator comes last is the decimal one.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = commaOrGrouping(s, ',')
	case lastDot >= 0:
		s = commaOrGrouping(s, '.')
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// commaOrGrouping decides whether the only separator kind in s is a decimal
// mark or a thousands separator. A single separator followed by exactly three
// digits is read as grouping ("1.299" = 1299).
func commaOrGrouping(s string, sep byte) string {
	parts := strings.Split(s, string(sep))
	if len(parts) == 2 && len(parts[1]) != 3 {
		return parts[0] + "." + parts[1]
	}
	return strings.Join(parts, "")
}
