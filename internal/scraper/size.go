package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Shared size/price token recognizers. Sizes are unit-suffixed numeric tokens
// ("1.0floz", "30ml", "50 g"); prices on the wire are always "$D.DD".
var (
	sizeTokenRe   = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:fl\s*)?(?:oz|g|ml|kg|lb|gram|liter|L)\b`)
	strictPriceRe = regexp.MustCompile(`\$([\d,]+\.\d{2})`)
	loosePriceRe  = regexp.MustCompile(`\$([\d,]+(?:\.\d{2})?)`)
	amountRe      = regexp.MustCompile(`([\d,]+(?:\.\d{2})?)`)
	decimalRe     = regexp.MustCompile(`([\d,]+\.\d{2})`)
	deltaPriceRe  = regexp.MustCompile(`\(\+\s*\$([\d,]+\.\d{2})\)`)
	bracketRe     = regexp.MustCompile(`\[\+?\$([\d,]+(?:\.\d{2})?)\]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// firstSizeToken returns the first size-unit token in text, whitespace
// normalized, or "" when none is present.
func firstSizeToken(text string) string {
	match := sizeTokenRe.FindString(text)
	if match == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(match), " ")
}

func containsSizeToken(text string) bool {
	return sizeTokenRe.MatchString(text)
}

// parseAmount parses a raw amount such as "1,234", "1234.5" or "$12" into a
// float, stripping the currency sign and thousands separators.
func parseAmount(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// normalizePrice converts a raw amount into the "$D.DD" wire format with
// exactly two decimals and no thousands separators.
func normalizePrice(raw string) (string, bool) {
	v, ok := parseAmount(raw)
	if !ok {
		return "", false
	}
	return formatPrice(v), true
}

// strictPriceFrom finds the first "$D.DD" amount in text, normalized.
func strictPriceFrom(text string) (string, bool) {
	m := strictPriceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return normalizePrice(m[1])
}

// loosePriceFrom also accepts whole-dollar amounts like "$12".
func loosePriceFrom(text string) (string, bool) {
	m := loosePriceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return normalizePrice(m[1])
}
