package reconcile

import (
	"regexp"
	"strings"
)

// txLineRe matches one transaction line: date, description, amount, and an
// optional CR/DR marker. Leftmost-first-match semantics; no tie-breaking
// beyond what the regex engine gives us.
var txLineRe = regexp.MustCompile(
	`^(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})` + // date
		`\s+(.+?)\s+` + // description, non-greedy
		`(-?(?:[$€£₹]\s?)?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)` + // amount
		`\s*(CR|DR)?$`, // issuer credit/debit marker
)

// FallbackTransactions recovers (date, description, amount) triples from
// raw statement text, line by line. Used when the model output could not
// be parsed. Duplicate lines collapse to one row.
func FallbackTransactions(text string) []Transaction {
	if text == "" {
		return nil
	}

	var out []Transaction
	seen := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := txLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, desc, amount, marker := m[1], strings.TrimSpace(m[2]), m[3], m[4]

		typ := InferType(amount, desc)
		if marker == "CR" {
			typ = TypeCredit
		}
		if IsNegativeAmount(amount) {
			amount = CleanAmount(amount)
		}

		key := date + "|" + desc + "|" + amount
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Type:        typ,
		})
	}
	return out
}
