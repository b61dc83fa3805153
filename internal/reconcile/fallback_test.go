package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackTransactions(t *testing.T) {
	text := `ACME BANK STATEMENT
12/05/2023 Grocery Store 1,250.50
13/05/2023 Online Refund -320.00
14-05-2023 UPI Transfer $45.99 DR
15.05.2023 Card Payment 2,000.00 CR
Minimum amount due: 500.00
`
	txs := FallbackTransactions(text)
	require.Len(t, txs, 4)

	assert.Equal(t, Transaction{
		Date: "12/05/2023", Description: "Grocery Store", Amount: "1,250.50", Type: TypeDebit,
	}, txs[0])

	// negative amount: minus stripped, typed as credit
	assert.Equal(t, "320.00", txs[1].Amount)
	assert.Equal(t, TypeCredit, txs[1].Type)

	// currency symbol is allowed in the amount group
	assert.Equal(t, "14-05-2023", txs[2].Date)
	assert.Equal(t, "$45.99", txs[2].Amount)

	// CR marker wins over keyword inference
	assert.Equal(t, TypeCredit, txs[3].Type)
	assert.Equal(t, "2,000.00", txs[3].Amount)
}

func TestFallbackTransactionsDedupe(t *testing.T) {
	text := "12/05/2023 Grocery Store 1,250.50\n12/05/2023 Grocery Store 1,250.50\n"
	txs := FallbackTransactions(text)
	assert.Len(t, txs, 1)
}

func TestFallbackTransactionsEmptyText(t *testing.T) {
	assert.Nil(t, FallbackTransactions(""))
	assert.Empty(t, FallbackTransactions("no transactions in here at all"))
}

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"-1,250.50", "1,250.50"},
		{"$ 45.99", "45.99"},
		{"₹2,000.00", "2,000.00"},
		{"  -£10 ", "10"},
		{"300", "300"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CleanAmount(tc.in), "input %q", tc.in)
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("$1,250.50")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", d.String())

	d, err = ParseAmount("-320.00")
	require.NoError(t, err)
	assert.True(t, d.IsNegative())

	_, err = ParseAmount("not a number")
	assert.Error(t, err)
}

func TestInferType(t *testing.T) {
	assert.Equal(t, TypeCredit, InferType("-100", "Grocery"))
	assert.Equal(t, TypeCredit, InferType("100", "Online Payment Received"))
	assert.Equal(t, TypeCredit, InferType("100", "Cashback Reward"))
	assert.Equal(t, TypeDebit, InferType("100", "Grocery Store"))
}
