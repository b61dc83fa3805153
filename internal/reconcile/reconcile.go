// Package reconcile turns raw completion text into a structured statement:
// locate and parse the first JSON object, or fall back to a line regex over
// the statement text, or surface the completion verbatim as unstructured.
package reconcile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// RawOutputKey is the summary key carrying the verbatim completion when no
// structure could be recovered.
const RawOutputKey = "raw_output"

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction is one statement line item.
type Transaction struct {
	Date        string `json:"date" csv:"date"`
	Description string `json:"description" csv:"description"`
	Amount      string `json:"amount" csv:"amount"`
	Type        string `json:"type" csv:"type"`
}

// Source records which path produced a Result.
type Source string

const (
	SourceModel    Source = "model"    // JSON parsed from the completion
	SourceFallback Source = "fallback" // regex over the statement text
	SourceRaw      Source = "raw"      // nothing structured; raw output only
)

// Result is the reconciled statement content.
type Result struct {
	Summary      map[string]string
	Transactions []Transaction
	RawOutput    string // verbatim completion, kept for display on degraded paths
	Source       Source
}

// Reconcile runs the two-step pipeline over a completion. statementText is
// the fallback source for the regex pass; pass "" to disable the fallback.
// Never returns an error: the worst case is a raw-output result.
func Reconcile(completion, statementText string, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}

	if span, ok := FirstJSONObject(completion); ok {
		var m map[string]any
		if err := json.Unmarshal([]byte(span), &m); err == nil {
			res := fromModelObject(m)
			res.Source = SourceModel
			logger.Info("reconcile.model_json.ok",
				"summary_fields", len(res.Summary),
				"transactions", len(res.Transactions),
			)
			return res
		}
		logger.Warn("reconcile.model_json.parse_failed", "span_len", len(span))
	}

	if txs := FallbackTransactions(statementText); len(txs) > 0 {
		logger.Info("reconcile.fallback.ok", "transactions", len(txs))
		return Result{
			Transactions: txs,
			RawOutput:    completion,
			Source:       SourceFallback,
		}
	}

	logger.Warn("reconcile.unstructured", "completion_len", len(completion))
	return Result{
		Summary:   map[string]string{RawOutputKey: completion},
		RawOutput: completion,
		Source:    SourceRaw,
	}
}

// transactionKeys are the list keys the model has been seen to use; the
// prompt says transaction_information but some completions come back with
// the space-spelled form.
var transactionKeys = []string{"transaction_information", "transaction information"}

func fromModelObject(m map[string]any) Result {
	res := Result{Summary: make(map[string]string, len(m))}

	for _, key := range transactionKeys {
		list, ok := m[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			res.Transactions = append(res.Transactions, transactionFromRow(row))
		}
		delete(m, key)
	}
	// the key may be present but not a list (e.g. "none"); drop it either way
	for _, key := range transactionKeys {
		delete(m, key)
	}

	for k, v := range m {
		res.Summary[k] = stringify(v)
	}
	return res
}

func transactionFromRow(row map[string]any) Transaction {
	tx := Transaction{
		Date:        stringify(row["date"]),
		Description: stringify(row["description"]),
		Amount:      stringify(row["amount"]),
	}
	typ := stringify(row["type"])
	if typ == "" {
		// prompt shape echoed back literally
		typ = stringify(row["type (credit/debit)"])
	}
	typ = strings.ToLower(strings.TrimSpace(typ))
	switch typ {
	case TypeCredit, TypeDebit:
		tx.Type = typ
	default:
		tx.Type = InferType(tx.Amount, tx.Description)
	}
	if IsNegativeAmount(tx.Amount) {
		tx.Amount = CleanAmount(tx.Amount)
	}
	return tx
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
