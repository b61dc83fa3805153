// Package export renders a processed statement as CSV and XLSX downloads.
package export

import (
	"github.com/gocarina/gocsv"

	"github.com/om0401/CreditCardDataExtraction/internal/reconcile"
)

// SummaryRow is the single-row CSV shape for the summary fields. Columns
// mirror the field enum; fields the caller did not select stay empty.
type SummaryRow struct {
	Issuer            string `csv:"issuer"`
	CustomerName      string `csv:"customer_name"`
	CardLast4Digits   string `csv:"card_last_4_digits"`
	CreditCardVariant string `csv:"credit_card_variant"`
	BillingCycleFrom  string `csv:"billing_cycle_from"`
	BillingCycleTo    string `csv:"billing_cycle_to"`
	PaymentDueDate    string `csv:"payment_due_date"`
	TotalAmountDue    string `csv:"total_amount_due"`
	MinimumAmountDue  string `csv:"minimum_amount_due"`
	RawOutput         string `csv:"raw_output"`
}

func summaryRowFromFields(fields map[string]string) SummaryRow {
	return SummaryRow{
		Issuer:            fields["issuer"],
		CustomerName:      fields["customer_name"],
		CardLast4Digits:   fields["card_last_4_digits"],
		CreditCardVariant: fields["credit_card_variant"],
		BillingCycleFrom:  fields["billing_cycle_from"],
		BillingCycleTo:    fields["billing_cycle_to"],
		PaymentDueDate:    fields["payment_due_date"],
		TotalAmountDue:    fields["total_amount_due"],
		MinimumAmountDue:  fields["minimum_amount_due"],
		RawOutput:         fields[reconcile.RawOutputKey],
	}
}

// SummaryCSV renders the summary fields as a header row plus one value row.
func SummaryCSV(fields map[string]string) ([]byte, error) {
	rows := []SummaryRow{summaryRowFromFields(fields)}
	return gocsv.MarshalBytes(&rows)
}

// TransactionsCSV renders the transaction list as CSV.
func TransactionsCSV(txs []reconcile.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []reconcile.Transaction{}
	}
	return gocsv.MarshalBytes(&txs)
}
