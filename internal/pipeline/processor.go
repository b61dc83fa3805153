// Package pipeline coordinates the per-upload flow: text extraction, the
// completion call, reconciliation, and persistence.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/om0401/CreditCardDataExtraction/constants"
	"github.com/om0401/CreditCardDataExtraction/internal/common"
	"github.com/om0401/CreditCardDataExtraction/internal/llm"
	"github.com/om0401/CreditCardDataExtraction/internal/ocr"
	"github.com/om0401/CreditCardDataExtraction/internal/reconcile"
	"github.com/om0401/CreditCardDataExtraction/internal/repository"
	"github.com/om0401/CreditCardDataExtraction/internal/statement"
)

// Processor runs one statement through the whole pipeline. The store is
// optional: with a nil store nothing is persisted (one-shot CLI use).
type Processor struct {
	logger    *slog.Logger
	extractor *ocr.Extractor
	completer llm.Completer
	store     *repository.Store
}

func NewProcessor(extractor *ocr.Extractor, completer llm.Completer, store *repository.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		completer: completer,
		store:     store,
	}
}

// ProcessFile extracts text from the PDF at path, asks the model to
// structure it, reconciles the output, and records the result. fields
// selects the summary fields to request; nil means all of them.
func (p *Processor) ProcessFile(ctx context.Context, path, filename string, fields []string) (*statement.Statement, error) {
	start := time.Now()
	if filename == "" {
		filename = filepath.Base(path)
	}
	selected, err := canonicalFields(fields)
	if err != nil {
		return nil, err
	}

	jobID := uuid.New()
	if p.store != nil {
		if err := p.store.CreateJob(ctx, jobID, filename); err != nil {
			return nil, err
		}
		if err := p.store.UpdateJobStatus(ctx, jobID, constants.JobStatusRunning, ""); err != nil {
			return nil, err
		}
	}

	ocrRes, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.fail(ctx, jobID, err)
		return nil, common.WrapError(err, "text extraction")
	}
	if p.store != nil {
		_ = p.store.SetJobResultMeta(ctx, jobID, ocrRes.Method, ocrRes.Pages)
		_ = p.store.UpdateJobStatus(ctx, jobID, constants.JobStatusTextOK, "")
	}

	completion, err := p.completer.Complete(ctx, llm.ExtractRequest{
		StatementText: ocrRes.Text,
		Fields:        selected,
		FilenameHint:  filename,
	})
	if err != nil {
		p.fail(ctx, jobID, err)
		return nil, common.WrapError(err, "completion")
	}

	res := reconcile.Reconcile(completion, ocrRes.Text, p.logger)
	if res.Source == reconcile.SourceModel {
		res = p.sanitizeModelResult(res, selected)
	}

	st := &statement.Statement{
		ID:           uuid.New(),
		Filename:     filename,
		Fields:       res.Summary,
		Transactions: res.Transactions,
		Source:       res.Source,
		Pages:        ocrRes.Pages,
		OCRPages:     ocrRes.OCRPages,
		Method:       ocrRes.Method,
		CreatedAt:    time.Now().UTC(),
	}
	if st.Source != reconcile.SourceModel {
		st.RawOutput = res.RawOutput
	}
	if st.Fields == nil {
		st.Fields = map[string]string{}
	}

	if p.store != nil {
		if err := p.store.SaveStatement(ctx, st, jobID); err != nil {
			p.fail(ctx, jobID, err)
			return nil, err
		}
		_ = p.store.UpdateJobStatus(ctx, jobID, constants.JobStatusLLMOK, "")
	}

	p.logger.Info("pipeline.process.ok",
		"statement_id", st.ID.String(),
		"filename", filename,
		"source", string(st.Source),
		"pages", st.Pages,
		"ocr_pages", st.OCRPages,
		"transactions", len(st.Transactions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return st, nil
}

// sanitizeModelResult runs the sanitize + schema-validate pass over a
// structured model result. Validation failure degrades, never aborts: the
// sanitized content is kept and the mismatch logged.
func (p *Processor) sanitizeModelResult(res reconcile.Result, fields []string) reconcile.Result {
	doc, err := res.Document()
	if err != nil {
		p.logger.Warn("pipeline.sanitize.encode_failed", "error", err)
		return res
	}
	cleaned, _, err := llm.SanitizeFields(doc, p.logger)
	if err != nil {
		p.logger.Warn("pipeline.sanitize.failed", "error", err)
		return res
	}
	schema := llm.BuildStatementJSONSchema(fields)
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		p.logger.Warn("pipeline.schema_validation_failed", "error", err)
	}
	rebuilt, err := reconcile.FromDocument(cleaned)
	if err != nil {
		p.logger.Warn("pipeline.sanitize.decode_failed", "error", err)
		return res
	}
	rebuilt.RawOutput = res.RawOutput
	return rebuilt
}

func (p *Processor) fail(ctx context.Context, jobID uuid.UUID, cause error) {
	if p.store == nil {
		return
	}
	if err := p.store.UpdateJobStatus(ctx, jobID, constants.JobStatusFailed, cause.Error()); err != nil {
		p.logger.Error("pipeline.job_fail_update_error", "job_id", jobID.String(), "error", err)
	}
}

func canonicalFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return constants.AllFields(), nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		canon, ok := constants.CanonicalField(f)
		if !ok {
			return nil, common.NewAppError("INVALID_FIELD", "unknown field: "+f, common.ErrInvalidInput)
		}
		out = append(out, string(canon))
	}
	return out, nil
}
