package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/om0401/CreditCardDataExtraction/constants"
	"github.com/om0401/CreditCardDataExtraction/internal/common"
	"github.com/om0401/CreditCardDataExtraction/internal/reconcile"
	"github.com/om0401/CreditCardDataExtraction/internal/statement"
)

// Placeholders use the $N form, which both pgx and SQLite accept.

// StatementListItem is the lightweight row returned by ListStatements.
type StatementListItem struct {
	ID               uuid.UUID        `json:"id"`
	Filename         string           `json:"filename"`
	Source           reconcile.Source `json:"source"`
	TransactionCount int              `json:"transaction_count"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Store persists extraction jobs and finished statements.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// CreateJob records a new extraction job in QUEUED state.
func (s *Store) CreateJob(ctx context.Context, id uuid.UUID, filename string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extract_job (id, filename, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id.String(), filename, string(constants.JobStatusQueued), now, now)
	if err != nil {
		return common.WrapError(err, "create job")
	}
	return nil
}

// UpdateJobStatus advances a job through its lifecycle. errMsg is only
// meaningful for FAILED.
func (s *Store) UpdateJobStatus(ctx context.Context, id uuid.UUID, status constants.JobStatus, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE extract_job SET status = $1, error_msg = $2, updated_at = $3 WHERE id = $4`,
		string(status), errMsg, now, id.String())
	if err != nil {
		return common.WrapError(err, "update job status")
	}
	return nil
}

// SetJobResultMeta records OCR metadata on a job after stage 1.
func (s *Store) SetJobResultMeta(ctx context.Context, id uuid.UUID, method string, pages int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE extract_job SET method = $1, pages = $2, updated_at = $3 WHERE id = $4`,
		method, pages, now, id.String())
	if err != nil {
		return common.WrapError(err, "set job meta")
	}
	return nil
}

// SaveStatement writes a finished statement plus its summary fields and
// transactions in one transaction.
func (s *Store) SaveStatement(ctx context.Context, st *statement.Statement, jobID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin save")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO statement (id, job_id, filename, source, raw_output, pages, ocr_pages, method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		st.ID.String(), jobID.String(), st.Filename, string(st.Source), st.RawOutput,
		st.Pages, st.OCRPages, st.Method, st.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return common.WrapError(err, "insert statement")
	}

	for name, value := range st.Fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO statement_summary (statement_id, name, value) VALUES ($1, $2, $3)`,
			st.ID.String(), name, value); err != nil {
			return common.WrapError(err, "insert summary field")
		}
	}

	for i, t := range st.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO statement_tx (statement_id, position, tx_date, description, amount, tx_type)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			st.ID.String(), i, t.Date, t.Description, t.Amount, t.Type); err != nil {
			return common.WrapError(err, "insert transaction")
		}
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit save")
	}
	s.logger.Info("store.statement.saved",
		"statement_id", st.ID.String(),
		"fields", len(st.Fields),
		"transactions", len(st.Transactions),
	)
	return nil
}

// GetStatement loads one statement with its fields and transactions.
func (s *Store) GetStatement(ctx context.Context, id uuid.UUID) (*statement.Statement, error) {
	st := &statement.Statement{ID: id, Fields: map[string]string{}}

	var createdAt, source string
	err := s.db.QueryRowContext(ctx,
		`SELECT filename, source, raw_output, pages, ocr_pages, method, created_at
		 FROM statement WHERE id = $1`, id.String()).
		Scan(&st.Filename, &source, &st.RawOutput, &st.Pages, &st.OCRPages, &st.Method, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("statement %s", id), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "query statement")
	}
	st.Source = reconcile.Source(source)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		st.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM statement_summary WHERE statement_id = $1`, id.String())
	if err != nil {
		return nil, common.WrapError(err, "query summary fields")
	}
	defer rows.Close()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, common.WrapError(err, "scan summary field")
		}
		st.Fields[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "summary rows")
	}

	txRows, err := s.db.QueryContext(ctx,
		`SELECT tx_date, description, amount, tx_type FROM statement_tx
		 WHERE statement_id = $1 ORDER BY position`, id.String())
	if err != nil {
		return nil, common.WrapError(err, "query transactions")
	}
	defer txRows.Close()
	for txRows.Next() {
		var t reconcile.Transaction
		if err := txRows.Scan(&t.Date, &t.Description, &t.Amount, &t.Type); err != nil {
			return nil, common.WrapError(err, "scan transaction")
		}
		st.Transactions = append(st.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return nil, common.WrapError(err, "transaction rows")
	}

	return st, nil
}

// ListStatements returns the most recent statements, newest first.
func (s *Store) ListStatements(ctx context.Context, limit int) ([]StatementListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.filename, st.source, st.created_at,
		        (SELECT COUNT(*) FROM statement_tx t WHERE t.statement_id = st.id)
		 FROM statement st ORDER BY st.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, common.WrapError(err, "list statements")
	}
	defer rows.Close()

	var out []StatementListItem
	for rows.Next() {
		var (
			idStr, createdAt, source string
			item                     StatementListItem
		)
		if err := rows.Scan(&idStr, &item.Filename, &source, &createdAt, &item.TransactionCount); err != nil {
			return nil, common.WrapError(err, "scan statement row")
		}
		if id, err := uuid.Parse(idStr); err == nil {
			item.ID = id
		}
		item.Source = reconcile.Source(source)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			item.CreatedAt = t
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
