package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/om0401/CreditCardDataExtraction/constants"
	"github.com/om0401/CreditCardDataExtraction/internal/common"
	"github.com/om0401/CreditCardDataExtraction/internal/llm"
	"github.com/om0401/CreditCardDataExtraction/internal/ocr"
	"github.com/om0401/CreditCardDataExtraction/internal/reconcile"
	"github.com/om0401/CreditCardDataExtraction/internal/repository"
)

const statementText = "ACME BANK CREDIT CARD STATEMENT\n12/05/2023 Grocery Store 1,250.50"

// textRunner serves a readable text layer so the extractor never reaches
// for the raster tools.
type textRunner struct{ text string }

func (r textRunner) Run(_ context.Context, name string, _ ...string) ([]byte, []byte, error) {
	if !strings.Contains(name, "pdftotext") {
		return nil, nil, errors.New("unexpected command: " + name)
	}
	return []byte(r.text + "\f"), nil, nil
}

type fakeCompleter struct {
	response string
	err      error
	lastReq  llm.ExtractRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.ExtractRequest) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

func newTestProcessor(completer llm.Completer, store *repository.Store) *Processor {
	extractor := ocr.NewExtractorWithRunner(ocr.Config{}, textRunner{text: statementText}, nil)
	return NewProcessor(extractor, completer, store, nil)
}

func TestProcessFileStructuredResult(t *testing.T) {
	completer := &fakeCompleter{response: `{
		"issuer": "ACME Bank",
		"total_amount_due": 12500.5,
		"transaction_information": [
			{"date": "12/05/2023", "description": "Grocery Store",
			 "amount": 1250.5, "type (credit/debit)": "Debit"}
		]
	}`}

	st, err := newTestProcessor(completer, nil).ProcessFile(
		context.Background(), "/tmp/may.pdf", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "may.pdf", st.Filename)
	assert.Equal(t, reconcile.SourceModel, st.Source)
	assert.Empty(t, st.RawOutput)
	assert.Equal(t, "ACME Bank", st.Fields["issuer"])
	assert.Equal(t, "12500.50", st.Fields["total_amount_due"])
	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "debit", st.Transactions[0].Type)
	assert.Equal(t, "1250.50", st.Transactions[0].Amount)
	assert.False(t, st.Unstructured())

	// with no field selection, every known field is requested
	assert.Equal(t, constants.AllFields(), completer.lastReq.Fields)
	assert.Contains(t, completer.lastReq.StatementText, "Grocery Store")
}

func TestProcessFileFieldSelection(t *testing.T) {
	completer := &fakeCompleter{response: `{"issuer": "ACME Bank"}`}

	_, err := newTestProcessor(completer, nil).ProcessFile(
		context.Background(), "/tmp/may.pdf", "", []string{"Issuer", "transaction information"})
	require.NoError(t, err)
	assert.Equal(t, []string{"issuer", "transaction_information"}, completer.lastReq.Fields)
}

func TestProcessFileUnknownField(t *testing.T) {
	completer := &fakeCompleter{response: `{}`}

	_, err := newTestProcessor(completer, nil).ProcessFile(
		context.Background(), "/tmp/may.pdf", "", []string{"statement_period"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestProcessFileFallbackKeepsRawOutput(t *testing.T) {
	completer := &fakeCompleter{response: "sorry, I could not parse that statement"}

	st, err := newTestProcessor(completer, nil).ProcessFile(
		context.Background(), "/tmp/may.pdf", "", nil)
	require.NoError(t, err)

	assert.Equal(t, reconcile.SourceFallback, st.Source)
	assert.Equal(t, completer.response, st.RawOutput)
	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "Grocery Store", st.Transactions[0].Description)
}

func TestProcessFileCompletionError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}

	_, err := newTestProcessor(completer, nil).ProcessFile(
		context.Background(), "/tmp/may.pdf", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion")
}

func TestProcessFilePersistsAndTracksJob(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{
		DSN: filepath.Join(t.TempDir(), "test.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.EnsureSchema(ctx, db))
	store := repository.NewStore(db, nil)

	completer := &fakeCompleter{response: `{"issuer": "ACME Bank"}`}
	st, err := newTestProcessor(completer, store).ProcessFile(ctx, "/tmp/may.pdf", "", nil)
	require.NoError(t, err)

	got, err := store.GetStatement(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME Bank", got.Fields["issuer"])

	var status string
	err = db.QueryRowContext(ctx, `SELECT status FROM extract_job WHERE id IN
		(SELECT job_id FROM statement WHERE id = $1)`, st.ID.String()).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusLLMOK), status)
}
