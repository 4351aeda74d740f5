package criteria

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRE = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// unit strings are taken verbatim from the document; this only delimits the
// token following the magnitude.
func isUnitRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == '/' || r == '%' || r == '²' || r == '³' || r == '°':
		return true
	}
	return false
}

// parseMagnitude finds the first numeric value in text and the unit token
// immediately following it. The raw value and unit are preserved verbatim,
// no conversion is applied. ok is false when no number is present.
func parseMagnitude(text string) (value float64, unit string, ok bool) {
	loc := numberRE.FindStringIndex(text)
	if loc == nil {
		return 0, "", false
	}
	value, err := strconv.ParseFloat(text[loc[0]:loc[1]], 64)
	if err != nil {
		return 0, "", false
	}

	rest := strings.TrimLeft(text[loc[1]:], " \t")
	for _, r := range rest {
		if !isUnitRune(r) {
			break
		}
		unit += string(r)
	}
	return value, unit, true
}

// parseNumbers returns every numeric value in text, in order. Used for axle
// load sequences like "12.5 + 12.5 + 6.0t".
func parseNumbers(text string) []float64 {
	var out []float64
	for _, m := range numberRE.FindAllString(text, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// trailingUnit returns the unit token at the end of text, if any.
func trailingUnit(text string) string {
	runes := []rune(strings.TrimRight(text, " \t."))
	start := len(runes)
	for start > 0 && isUnitRune(runes[start-1]) {
		start--
	}
	return string(runes[start:])
}
