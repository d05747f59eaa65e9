package amendment

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DescriptionLength bounds descriptions both in fingerprints and on display.
const DescriptionLength = 200

var currencyPlaceholders = map[string]bool{
	"":  true,
	"—": true,
	"–": true,
	"-": true,
}

var half = decimal.NewFromFloat(0.5)

// ParseCurrency reads LIS amount cells like "$1,234.50" or "(500)".
// Empty cells, dash placeholders and anything unparseable or out of float
// range yield nil.
func ParseCurrency(text string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	if currencyPlaceholders[cleaned] {
		return nil
	}

	negative := false
	if len(cleaned) > 2 && strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	if negative {
		d = d.Neg()
	}

	value := d.InexactFloat64()
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return nil
	}
	return &value
}

// NormalizeText folds compatibility forms, lower-cases, trims and collapses
// whitespace runs to single spaces.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	// Casers are not safe for concurrent use.
	lowered := cases.Lower(language.Und).String(norm.NFKC.String(text))
	return strings.Join(strings.Fields(lowered), " ")
}

// Truncate collapses whitespace and keeps the first n characters.
func Truncate(text string, n int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= n {
		return collapsed
	}
	return string(runes[:n])
}

// RoundHalfUp rounds to the nearest whole unit with .5 going toward
// positive infinity (2.5 → 3, -2.5 → -2).
func RoundHalfUp(value float64) int64 {
	return decimal.NewFromFloat(value).Add(half).Floor().IntPart()
}

func valueOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
