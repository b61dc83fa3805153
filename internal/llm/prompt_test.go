package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/om0401/CreditCardDataExtraction/constants"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(ExtractRequest{
		StatementText: "12/05/2023 Grocery Store 1,250.50",
		Fields:        []string{"issuer", "total_amount_due", "transaction_information"},
	})

	assert.Contains(t, p, "issuer, total_amount_due, transaction_information")
	assert.Contains(t, p, `"transaction_information"`)
	assert.Contains(t, p, `"type (credit/debit)"`)
	assert.Contains(t, p, "valid JSON object only")
	assert.Contains(t, p, "12/05/2023 Grocery Store 1,250.50")
}

func TestBuildPromptTruncatesStatementText(t *testing.T) {
	long := strings.Repeat("x", PromptTextLimit+500)
	p := BuildPrompt(ExtractRequest{
		StatementText: long,
		Fields:        constants.AllFields(),
	})

	assert.Contains(t, p, long[:PromptTextLimit])
	assert.NotContains(t, p, strings.Repeat("x", PromptTextLimit+1))
}
