package reconcile

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var reAmountNoise = regexp.MustCompile(`[^0-9.,\-]`)

// CleanAmount strips currency symbols, whitespace, and a leading minus,
// keeping digits and separators as the source formatted them.
func CleanAmount(s string) string {
	s = reAmountNoise.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimPrefix(s, "-")
}

// ParseAmount parses an amount string into a decimal, tolerating currency
// symbols and thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = reAmountNoise.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}

// IsNegativeAmount reports whether the amount carries a minus sign.
func IsNegativeAmount(s string) bool {
	d, err := ParseAmount(s)
	if err != nil {
		return strings.HasPrefix(strings.TrimSpace(s), "-")
	}
	return d.IsNegative()
}

var creditKeywords = []string{"payment", "credit", "refund", "reversal", "cashback"}

// InferType guesses credit/debit for a line: a negative amount or a
// credit-ish keyword in the description marks it a credit.
func InferType(amount, description string) string {
	if IsNegativeAmount(amount) {
		return TypeCredit
	}
	desc := strings.ToLower(description)
	for _, kw := range creditKeywords {
		if strings.Contains(desc, kw) {
			return TypeCredit
		}
	}
	return TypeDebit
}
