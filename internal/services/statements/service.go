// Package statements is the façade the transport layers call: run an
// extraction, look results up, and render downloads.
package statements

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/om0401/CreditCardDataExtraction/internal/export"
	"github.com/om0401/CreditCardDataExtraction/internal/pipeline"
	"github.com/om0401/CreditCardDataExtraction/internal/repository"
	"github.com/om0401/CreditCardDataExtraction/internal/statement"
)

type Service struct {
	proc   *pipeline.Processor
	store  *repository.Store
	logger *slog.Logger
}

func NewService(proc *pipeline.Processor, store *repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{proc: proc, store: store, logger: logger}
}

// Extract runs one uploaded PDF through the pipeline.
func (s *Service) Extract(ctx context.Context, path, filename string, fields []string) (*statement.Statement, error) {
	return s.proc.ProcessFile(ctx, path, filename, fields)
}

// Get loads a previously processed statement.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*statement.Statement, error) {
	return s.store.GetStatement(ctx, id)
}

// List returns recent statements, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]repository.StatementListItem, error) {
	return s.store.ListStatements(ctx, limit)
}

// SummaryCSV renders the summary download for a statement.
func (s *Service) SummaryCSV(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	st, err := s.store.GetStatement(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := export.SummaryCSV(st.Fields)
	if err != nil {
		return nil, "", fmt.Errorf("summary csv: %w", err)
	}
	s.logger.Info("export.csv.ok", "statement_id", id.String(), "kind", "summary", "bytes", len(data))
	return data, st.Filename + "_summary.csv", nil
}

// TransactionsCSV renders the transaction download for a statement.
func (s *Service) TransactionsCSV(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	st, err := s.store.GetStatement(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := export.TransactionsCSV(st.Transactions)
	if err != nil {
		return nil, "", fmt.Errorf("transactions csv: %w", err)
	}
	s.logger.Info("export.csv.ok", "statement_id", id.String(), "kind", "transactions", "bytes", len(data))
	return data, st.Filename + "_transactions.csv", nil
}

// WorkbookXLSX renders the combined workbook download for a statement.
func (s *Service) WorkbookXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	start := time.Now()
	st, err := s.store.GetStatement(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := export.WorkbookXLSX(st.Fields, st.Transactions)
	if err != nil {
		return nil, "", fmt.Errorf("workbook: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"statement_id", id.String(),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return data, st.Filename + ".xlsx", nil
}
