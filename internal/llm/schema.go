package llm

import (
	"github.com/om0401/CreditCardDataExtraction/constants"
)

// BuildStatementJSONSchema returns a JSON-Schema (draft 2020-12 subset) as
// a generic map covering the selected fields. We use it locally to validate
// the reconciled model output; required is left empty because the model may
// legitimately omit fields a statement does not carry.
func BuildStatementJSONSchema(fields []string) map[string]any {
	props := map[string]any{}
	for _, f := range fields {
		if f == string(constants.TransactionInformation) {
			props[f] = transactionListProp()
			continue
		}
		props[f] = map[string]any{"type": "string"}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func transactionListProp() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"date":        map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				// amount formatting is inconsistent across issuers;
				// accept both and let the sanitizer coerce
				"amount": map[string]any{"type": []string{"string", "number"}},
				"type":   map[string]any{"type": "string", "enum": []string{"credit", "debit"}},
			},
			"required": []string{"date", "description", "amount"},
		},
	}
}
