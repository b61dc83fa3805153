package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/om0401/CreditCardDataExtraction/constants"
)

// SanitizeFields normalizes a reconciled statement document so it can pass
// schema validation:
//   - renames the space-spelled transaction key to the underscore form
//   - coerces numeric money fields to strings
//   - drops null/empty values and unknown keys
//   - keeps only the last 4 digits of the card number field
//
// Returns the cleaned document and a list of what was touched.
func SanitizeFields(doc []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)

	// transaction key: some completions come back space-spelled
	if v, ok := m["transaction information"]; ok {
		if _, exists := m[string(constants.TransactionInformation)]; !exists {
			m[string(constants.TransactionInformation)] = v
		}
		delete(m, "transaction information")
		dropped = append(dropped, "transaction information->transaction_information")
	}

	coerce := func(k string) {
		v, ok := m[k]
		if !ok {
			return
		}
		switch t := v.(type) {
		case float64:
			m[k] = trimFloat(t)
			dropped = append(dropped, k+"(number)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		}
	}
	for _, k := range constants.MoneyFields {
		coerce(k)
	}

	if v, ok := m[string(constants.CardLast4Digits)].(string); ok {
		s := strings.TrimSpace(v)
		if len(s) > 4 {
			m[string(constants.CardLast4Digits)] = s[len(s)-4:]
			dropped = append(dropped, string(constants.CardLast4Digits)+"(trimmed)")
		} else if s == "" {
			delete(m, string(constants.CardLast4Digits))
			dropped = append(dropped, string(constants.CardLast4Digits)+"(empty)")
		}
	}

	// remove unknown keys; the schema is additionalProperties:false
	for k := range maps.Clone(m) {
		if !constants.IsField(k) {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		if k == string(constants.TransactionInformation) {
			continue
		}
		// stringify stray scalars so every summary value is a string
		switch t := m[k].(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case float64:
			m[k] = trimFloat(t)
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		}
	}

	sanitizeTransactions(m, &dropped)

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.sanitize.applied", "touched", dropped)
	}
	return out, dropped, nil
}

func sanitizeTransactions(m map[string]any, dropped *[]string) {
	key := string(constants.TransactionInformation)
	list, ok := m[key].([]any)
	if !ok {
		return
	}
	cleaned := make([]any, 0, len(list))
	for _, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			*dropped = append(*dropped, key+"(row)")
			continue
		}
		// the prompt asks for "type (credit/debit)"; some models echo
		// that literal key back
		if v, ok := row["type (credit/debit)"]; ok {
			if _, exists := row["type"]; !exists {
				row["type"] = v
			}
			delete(row, "type (credit/debit)")
		}
		if v, ok := row["type"].(string); ok {
			typ := strings.ToLower(strings.TrimSpace(v))
			if typ == "" {
				delete(row, "type")
			} else {
				row["type"] = typ
			}
		}
		if v, ok := row["amount"].(float64); ok {
			row["amount"] = trimFloat(v)
		}
		for k := range maps.Clone(row) {
			switch k {
			case "date", "description", "amount", "type":
			default:
				delete(row, k)
			}
		}
		cleaned = append(cleaned, row)
	}
	m[key] = cleaned
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
