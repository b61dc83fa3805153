package constants

import "strings"

// SummaryField enumerates the attributes a caller can request from a
// statement. These are the stable wire names used in prompts, JSON
// output, and CSV headers.
type SummaryField string

const (
	Issuer                 SummaryField = "issuer"
	CustomerName           SummaryField = "customer_name"
	CardLast4Digits        SummaryField = "card_last_4_digits"
	CreditCardVariant      SummaryField = "credit_card_variant"
	BillingCycleFrom       SummaryField = "billing_cycle_from"
	BillingCycleTo         SummaryField = "billing_cycle_to"
	PaymentDueDate         SummaryField = "payment_due_date"
	TotalAmountDue         SummaryField = "total_amount_due"
	MinimumAmountDue       SummaryField = "minimum_amount_due"
	TransactionInformation SummaryField = "transaction_information"
)

var allFields = []SummaryField{
	Issuer,
	CustomerName,
	CardLast4Digits,
	CreditCardVariant,
	BillingCycleFrom,
	BillingCycleTo,
	PaymentDueDate,
	TotalAmountDue,
	MinimumAmountDue,
	TransactionInformation,
}

// AllFields returns every known field name, in display order.
func AllFields() []string {
	result := make([]string, len(allFields))
	for i, f := range allFields {
		result[i] = string(f)
	}
	return result
}

// IsField reports whether input names a known field (case-insensitive).
func IsField(input string) bool {
	_, ok := CanonicalField(input)
	return ok
}

// CanonicalField maps a user-supplied field name onto the enum. Spaces are
// treated as underscores so "transaction information" resolves too.
func CanonicalField(input string) (SummaryField, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	for _, f := range allFields {
		if normalized == string(f) {
			return f, true
		}
	}
	return "", false
}

// MoneyFields are the summary fields whose values are amounts; the
// sanitizer coerces numeric model output to strings for these.
var MoneyFields = []string{string(TotalAmountDue), string(MinimumAmountDue)}
