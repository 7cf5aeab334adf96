package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/alexpolo1/newolddkprice/models"
)

var (
	// currencyRegexp matches the Danish krone markers stripped before parsing
	currencyRegexp = regexp.MustCompile(`(?i)kr\.?|dkk`)
	// thousandsRegexp spots a "." or whitespace separator followed by a 3-digit
	// group. The class covers every rune unicode.IsSpace accepts.
	thousandsRegexp = regexp.MustCompile(`[.\s\v\x{85}\p{Zs}\x{2028}\x{2029}]\d{3}`)
	// priceStringRegexp captures a Danish-style price with an optional currency token
	priceStringRegexp = regexp.MustCompile(`(?i)(\d{1,3}(?:[.\s\p{Zs}]\d{3})*(?:,\d{1,2})?)[\s\p{Zs}]*(kr\.?|DKK)?`)
	// looseNumberRegexp is the fallback: any digit run with interspersed separators
	looseNumberRegexp = regexp.MustCompile(`(\d+[\d.,\s\p{Zs}]*)`)
)

const defaultCurrency = "kr."

// NormalizePrice converts a free-form price such as "kr. 1.234",
// "1.234,00 kr" or "3289.00 DKK" into a number. The second result is false
// when no number could be parsed.
//
// A "." or whitespace followed by three digits is always read as a
// thousands separator, so "1.234" is 1234 and never 1.234.
func NormalizePrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	s := currencyRegexp.ReplaceAllString(text, "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.TrimSpace(s)

	cleaned := keepRunes(s, func(r rune) bool {
		return isDigit(r) || r == '.' || r == ',' || unicode.IsSpace(r)
	})
	if cleaned == "" {
		return 0, false
	}

	if thousandsRegexp.MatchString(cleaned) {
		core := dropRunes(cleaned, func(r rune) bool { return r == '.' || unicode.IsSpace(r) })
		core = strings.ReplaceAll(core, ",", ".")
		return parseFloat(core)
	}

	switch decimalSeparator(cleaned) {
	case '.':
		return parseFloat(dropRunes(cleaned, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }))
	case ',':
		core := dropRunes(cleaned, func(r rune) bool { return r == '.' || unicode.IsSpace(r) })
		return parseFloat(strings.ReplaceAll(core, ",", "."))
	default:
		return parseFloat(dropRunes(cleaned, func(r rune) bool { return r == '.' || r == ',' || unicode.IsSpace(r) }))
	}
}

// decimalSeparator picks whichever of '.' and ',' occurs last, provided 1 to
// 3 characters follow it. It returns 0 when there is no decimal separator.
func decimalSeparator(cleaned string) rune {
	runes := []rune(cleaned)
	lastDot, lastComma := -1, -1
	for i, r := range runes {
		switch r {
		case '.':
			lastDot = i
		case ',':
			lastComma = i
		}
	}

	sep, idx := '.', lastDot
	if lastComma > lastDot {
		sep, idx = ',', lastComma
	}
	if idx == -1 {
		return 0
	}
	if trailing := len(runes) - idx - 1; trailing >= 1 && trailing <= 3 {
		return sep
	}
	return 0
}

// ExtractPriceString finds a short price such as "3.999 kr." or "150 DKK"
// inside a larger text blob. The currency defaults to "kr." when the text
// has none. It returns "" when the text contains no digits.
func ExtractPriceString(text string) string {
	if text == "" {
		return ""
	}

	num, cur := "", ""
	if m := priceStringRegexp.FindStringSubmatch(text); m != nil {
		num, cur = m[1], m[2]
	} else if m := looseNumberRegexp.FindStringSubmatch(text); m != nil {
		num = m[1]
	} else {
		return ""
	}

	cur = strings.TrimSpace(cur)
	switch {
	case strings.EqualFold(cur, "DKK"):
		cur = "DKK"
	case cur == "":
		cur = defaultCurrency
	}
	return strings.TrimSpace(num + " " + cur)
}

// ParsePriceBound reads a user-supplied --min-price/--max-price value such as
// "500" or "3.000". Anything NormalizePrice rejects gets one more attempt
// with "." dropped and "," read as the decimal point.
func ParsePriceBound(s string) models.Price {
	if strings.TrimSpace(s) == "" {
		return models.NoPrice()
	}
	if v, ok := NormalizePrice(s); ok {
		return models.SomePrice(v)
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if v, ok := parseFloat(s); ok {
		return models.SomePrice(v)
	}
	return models.NoPrice()
}

// parseFloat keeps only digits and dots and parses the rest. Range errors
// count as failures.
func parseFloat(s string) (float64, bool) {
	core := keepRunes(s, func(r rune) bool { return isDigit(r) || r == '.' })
	if core == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(core, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func keepRunes(s string, keep func(rune) bool) string {
	return strings.Map(func(r rune) rune {
		if keep(r) {
			return r
		}
		return -1
	}, s)
}

func dropRunes(s string, drop func(rune) bool) string {
	return keepRunes(s, func(r rune) bool { return !drop(r) })
}
