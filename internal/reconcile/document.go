package reconcile

import (
	"encoding/json"
	"fmt"
)

// Document renders a Result back into canonical JSON: summary fields at
// the top level, transactions under transaction_information. Used to run
// the sanitize/validate pass over a model result.
func (r Result) Document() ([]byte, error) {
	m := make(map[string]any, len(r.Summary)+1)
	for k, v := range r.Summary {
		m[k] = v
	}
	if len(r.Transactions) > 0 {
		m["transaction_information"] = r.Transactions
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// FromDocument rebuilds a Result from a canonical JSON document.
func FromDocument(doc []byte) (Result, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return Result{}, fmt.Errorf("decode document: %w", err)
	}
	res := fromModelObject(m)
	res.Source = SourceModel
	return res, nil
}
