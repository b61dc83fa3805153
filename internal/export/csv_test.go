package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/om0401/CreditCardDataExtraction/internal/reconcile"
)

func TestSummaryCSV(t *testing.T) {
	data, err := SummaryCSV(map[string]string{
		"issuer":           "HDFC Bank",
		"total_amount_due": "12,500.50",
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"issuer,customer_name,card_last_4_digits,credit_card_variant,"+
			"billing_cycle_from,billing_cycle_to,payment_due_date,"+
			"total_amount_due,minimum_amount_due,raw_output",
		lines[0])
	assert.Contains(t, lines[1], "HDFC Bank")
	assert.Contains(t, lines[1], `"12,500.50"`)
}

func TestSummaryCSVRawOutput(t *testing.T) {
	data, err := SummaryCSV(map[string]string{
		reconcile.RawOutputKey: "unstructured model text",
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "unstructured model text")
}

func TestTransactionsCSV(t *testing.T) {
	data, err := TransactionsCSV([]reconcile.Transaction{
		{Date: "12/05/2023", Description: "Grocery Store", Amount: "1,250.50", Type: "debit"},
		{Date: "14/05/2023", Description: "Payment Received", Amount: "500.00", Type: "credit"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,description,amount,type", lines[0])
	assert.Equal(t, `12/05/2023,Grocery Store,"1,250.50",debit`, lines[1])
	assert.Equal(t, "14/05/2023,Payment Received,500.00,credit", lines[2])
}

func TestTransactionsCSVEmpty(t *testing.T) {
	data, err := TransactionsCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "date,description,amount,type", strings.TrimSpace(string(data)))
}
