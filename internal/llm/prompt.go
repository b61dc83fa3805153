package llm

import (
	"strings"
)

// PromptTextLimit caps how much extracted statement text goes into the
// prompt. Statements past the first handful of pages are boilerplate.
const PromptTextLimit = 7000

// BuildPrompt composes the single user-role prompt: the selected field
// names, the transaction list shape, and the statement text.
func BuildPrompt(req ExtractRequest) string {
	fields := req.Fields
	text := req.StatementText
	if len(text) > PromptTextLimit {
		text = text[:PromptTextLimit]
	}

	var b strings.Builder
	b.WriteString("You are a financial data extraction system.\n")
	b.WriteString("From this credit card statement, extract the following fields:\n")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(".\n\n")
	b.WriteString(`For "transaction_information", return a list of objects with keys ` +
		`["date", "description", "amount", "type (credit/debit)"].` + "\n\n")
	b.WriteString("Return a valid JSON object only, no markdown or explanations.\n\n")
	b.WriteString("Statement text:\n")
	b.WriteString(text)
	return b.String()
}
