package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/om0401/CreditCardDataExtraction/constants"
	"github.com/om0401/CreditCardDataExtraction/internal/async"
	"github.com/om0401/CreditCardDataExtraction/internal/common"
	"github.com/om0401/CreditCardDataExtraction/internal/export"
	"github.com/om0401/CreditCardDataExtraction/internal/llm/groq"
	"github.com/om0401/CreditCardDataExtraction/internal/ocr"
	"github.com/om0401/CreditCardDataExtraction/internal/pipeline"
	"github.com/om0401/CreditCardDataExtraction/internal/repository"
	"github.com/om0401/CreditCardDataExtraction/internal/statement"
)

var (
	flagFields  []string
	flagOutDir  string
	flagCSV     bool
	flagXLSX    bool
	flagPersist bool
	flagWorkers int
	flagTimeout time.Duration
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "stmtctl",
		Short:         "Extract structured data from credit card statement PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	extract := &cobra.Command{
		Use:   "extract <statement.pdf>",
		Short: "Process a single statement and print the structured result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), logger, args[0])
		},
	}
	extract.Flags().StringSliceVar(&flagFields, "fields", nil, "summary fields to request (default: all)")
	extract.Flags().StringVar(&flagOutDir, "out", "", "directory for CSV/XLSX output (default: alongside the PDF)")
	extract.Flags().BoolVar(&flagCSV, "csv", false, "also write summary and transaction CSVs")
	extract.Flags().BoolVar(&flagXLSX, "xlsx", false, "also write a combined workbook")
	extract.Flags().BoolVar(&flagPersist, "persist", false, "record the result in the configured store")

	batch := &cobra.Command{
		Use:   "batch <pdf>...",
		Short: "Process many statements concurrently, persisting each result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), logger, args)
		},
	}
	batch.Flags().StringSliceVar(&flagFields, "fields", nil, "summary fields to request (default: all)")
	batch.Flags().IntVar(&flagWorkers, "workers", 4, "concurrent workers")
	batch.Flags().DurationVar(&flagTimeout, "timeout", 3*time.Minute, "per-file processing timeout")

	exportCmd := &cobra.Command{
		Use:   "export <statement-id>",
		Short: "Re-render CSV and XLSX downloads for a stored statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), logger, args[0])
		},
	}
	exportCmd.Flags().StringVar(&flagOutDir, "out", ".", "directory for the rendered files")
	exportCmd.Flags().BoolVar(&flagXLSX, "xlsx", false, "also write a combined workbook")

	root.AddCommand(extract, batch, exportCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func buildProcessor(logger *slog.Logger, cfg *common.Config, store *repository.Store) *pipeline.Processor {
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		MinTextLen:    cfg.OCR.MinTextLen,
	}, logger)
	completer := groq.NewClient(groq.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	return pipeline.NewProcessor(extractor, completer, store, logger)
}

func openStore(ctx context.Context, logger *slog.Logger, cfg *common.Config) (*repository.Store, func(), error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.EnsureSchema(ctx, db); err != nil {
		repository.Close(db, logger)
		return nil, nil, err
	}
	return repository.NewStore(db, logger), func() { repository.Close(db, logger) }, nil
}

func runExtract(ctx context.Context, logger *slog.Logger, path string) error {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	var store *repository.Store
	if flagPersist {
		s, closeFn, err := openStore(ctx, logger, cfg)
		if err != nil {
			return err
		}
		defer closeFn()
		store = s
	}

	proc := buildProcessor(logger, cfg, store)
	st, err := proc.ProcessFile(ctx, path, "", flagFields)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	outDir := flagOutDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if flagCSV {
		if err := writeCSVs(st, outDir, base); err != nil {
			return err
		}
	}
	if flagXLSX {
		if err := writeWorkbook(st, outDir, base); err != nil {
			return err
		}
	}
	return nil
}

func runBatch(ctx context.Context, logger *slog.Logger, paths []string) error {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	store, closeFn, err := openStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, p := range paths {
		ext := constants.NormalizeExt(filepath.Ext(p))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return common.NewAppError("INVALID_FILE", "not a PDF: "+p, common.ErrInvalidInput)
		}
	}

	proc := buildProcessor(logger, cfg, store)
	queue := async.NewQueue(proc, logger,
		async.WithWorkers(flagWorkers),
		async.WithQueueSize(len(paths)),
		async.WithProcessTimeout(flagTimeout),
	)
	for _, p := range paths {
		if err := queue.Enqueue(ctx, async.Job{
			Path:        p,
			Fields:      flagFields,
			SubmittedAt: time.Now(),
			TraceID:     uuid.NewString(),
		}); err != nil {
			return err
		}
	}
	queue.Shutdown(ctx)
	return nil
}

func runExport(ctx context.Context, logger *slog.Logger, idArg string) error {
	id, err := uuid.Parse(idArg)
	if err != nil {
		return common.NewAppError("INVALID_ID", "invalid statement id", common.ErrInvalidInput)
	}
	cfg := common.LoadConfig()
	if cfg.Database.DSN == "" {
		return common.NewAppError("CONFIG_ERROR", "DB_URL is required", common.ErrInvalidInput)
	}
	store, closeFn, err := openStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	st, err := store.GetStatement(ctx, id)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(st.Filename, filepath.Ext(st.Filename))
	if err := writeCSVs(st, flagOutDir, base); err != nil {
		return err
	}
	if flagXLSX {
		if err := writeWorkbook(st, flagOutDir, base); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVs(st *statement.Statement, dir, base string) error {
	summary, err := export.SummaryCSV(st.Fields)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, base+"_summary.csv"), summary); err != nil {
		return err
	}
	if len(st.Transactions) > 0 {
		txs, err := export.TransactionsCSV(st.Transactions)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, base+"_transactions.csv"), txs); err != nil {
			return err
		}
	}
	return nil
}

func writeWorkbook(st *statement.Statement, dir, base string) error {
	data, err := export.WorkbookXLSX(st.Fields, st.Transactions)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, base+".xlsx"), data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "wrote", path)
	return nil
}
