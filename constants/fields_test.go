package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		in   string
		want SummaryField
		ok   bool
	}{
		{"issuer", Issuer, true},
		{" Issuer ", Issuer, true},
		{"transaction_information", TransactionInformation, true},
		{"transaction information", TransactionInformation, true},
		{"TRANSACTION INFORMATION", TransactionInformation, true},
		{"statement_period", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := CanonicalField(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestAllFields(t *testing.T) {
	fields := AllFields()
	assert.Len(t, fields, 10)
	assert.Equal(t, "issuer", fields[0])
	assert.Equal(t, "transaction_information", fields[len(fields)-1])
	for _, f := range fields {
		assert.True(t, IsField(f), "field %q", f)
	}
}
