// Package statement holds the domain types for one processed statement.
package statement

import (
	"time"

	"github.com/google/uuid"

	"github.com/om0401/CreditCardDataExtraction/internal/reconcile"
)

// Statement is the extracted content of one uploaded statement PDF.
type Statement struct {
	ID           uuid.UUID               `json:"id"`
	Filename     string                  `json:"filename"`
	Fields       map[string]string       `json:"fields"`
	Transactions []reconcile.Transaction `json:"transactions,omitempty"`
	RawOutput    string                  `json:"raw_output,omitempty"`
	Source       reconcile.Source        `json:"source"`
	Pages        int                     `json:"pages"`
	OCRPages     int                     `json:"ocr_pages"`
	Method       string                  `json:"method"`
	CreatedAt    time.Time               `json:"created_at"`
}

// Unstructured reports whether the statement degraded to raw model output.
func (s *Statement) Unstructured() bool {
	return s.Source == reconcile.SourceRaw
}
