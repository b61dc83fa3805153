package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileModelJSON(t *testing.T) {
	completion := "Here is the result:\n" +
		`{"issuer": "HDFC Bank", "total_amount_due": 12500.50,` +
		` "transaction_information": [` +
		`  {"date": "12/05/2023", "description": "Grocery Store", "amount": "1,250.50", "type": "debit"},` +
		`  {"date": "14/05/2023", "description": "Payment Received", "amount": "-500.00"}` +
		`]}` + "\nThanks!"

	res := Reconcile(completion, "", nil)
	require.Equal(t, SourceModel, res.Source)

	assert.Equal(t, "HDFC Bank", res.Summary["issuer"])
	assert.Equal(t, "12500.50", res.Summary["total_amount_due"])
	assert.NotContains(t, res.Summary, "transaction_information")

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, Transaction{
		Date:        "12/05/2023",
		Description: "Grocery Store",
		Amount:      "1,250.50",
		Type:        TypeDebit,
	}, res.Transactions[0])

	// no explicit type; leading minus means credit, and the sign is shed
	assert.Equal(t, TypeCredit, res.Transactions[1].Type)
	assert.Equal(t, "500.00", res.Transactions[1].Amount)
}

func TestReconcileSpaceSpelledTransactionKey(t *testing.T) {
	completion := `{"issuer": "Axis", "transaction information": [` +
		`{"date": "01/02/2024", "description": "Cafe", "amount": "300", "type (credit/debit)": "Debit"}]}`

	res := Reconcile(completion, "", nil)
	require.Equal(t, SourceModel, res.Source)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, TypeDebit, res.Transactions[0].Type)
	assert.NotContains(t, res.Summary, "transaction information")
	assert.NotContains(t, res.Summary, "transaction_information")
}

func TestReconcileTransactionKeyNotAList(t *testing.T) {
	completion := `{"issuer": "SBI", "transaction_information": "none"}`

	res := Reconcile(completion, "", nil)
	require.Equal(t, SourceModel, res.Source)
	assert.Empty(t, res.Transactions)
	assert.NotContains(t, res.Summary, "transaction_information")
	assert.Equal(t, "SBI", res.Summary["issuer"])
}

func TestReconcileFallsBackToRegex(t *testing.T) {
	completion := "I could not find any structured data in the statement."
	statementText := "12/05/2023 Grocery Store 1,250.50\nnot a transaction line\n"

	res := Reconcile(completion, statementText, nil)
	require.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, completion, res.RawOutput)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Grocery Store", res.Transactions[0].Description)
	assert.Equal(t, TypeDebit, res.Transactions[0].Type)
}

func TestReconcileRawOutputDegradation(t *testing.T) {
	completion := "The statement appears to be blank."

	res := Reconcile(completion, "", nil)
	require.Equal(t, SourceRaw, res.Source)
	assert.Equal(t, completion, res.Summary[RawOutputKey])
	assert.Equal(t, completion, res.RawOutput)
	assert.Empty(t, res.Transactions)
}

func TestReconcileBrokenJSONSpanFallsThrough(t *testing.T) {
	// has braces but the slice between them is not valid JSON
	completion := `the model said {"issuer": "HDFC", unterminated`
	statementText := "03/04/2024 Fuel Station 900.00 DR"

	res := Reconcile(completion, statementText, nil)
	assert.Equal(t, SourceFallback, res.Source)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Fuel Station", res.Transactions[0].Description)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string trimmed", "  hello ", "hello"},
		{"whole float", float64(1500), "1500"},
		{"fractional float", 1250.5, "1250.50"},
		{"bool", true, "true"},
		{"nested", map[string]any{"a": "b"}, `{"a":"b"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stringify(tc.in))
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	span, ok := FirstJSONObject(`prefix {"a": {"b": 1}} suffix`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, span)

	_, ok = FirstJSONObject("no braces here")
	assert.False(t, ok)

	_, ok = FirstJSONObject("} backwards {")
	assert.False(t, ok)
}
