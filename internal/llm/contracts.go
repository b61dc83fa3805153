package llm

import "context"

// ExtractRequest carries everything needed to build one completion call.
type ExtractRequest struct {
	StatementText string   // plain text from the normalizer
	Fields        []string // selected summary field names (wire names)
	FilenameHint  string
}

// Completer is the interface the pipeline depends on: one prompt in, the
// raw completion text out. Structuring the text is the reconciler's job.
type Completer interface {
	Complete(ctx context.Context, req ExtractRequest) (string, error)
}
