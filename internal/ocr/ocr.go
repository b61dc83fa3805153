package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/om0401/CreditCardDataExtraction/constants"
)

const (
	MethodPDFText = "pdf-text"
	MethodPDFOCR  = "pdf-ocr"
	MethodMixed   = "mixed"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned pages, default 300
	MaxPages      int    // 0 = no limit
	MinTextLen    int    // readability threshold in stripped chars, default 40
}

// ExtractionResult is the normalized plain text for a whole statement.
type ExtractionResult struct {
	Text     string
	Pages    int
	OCRPages int // pages that went through the raster+OCR path
	Method   string
	Language string
	Duration time.Duration
}

// Extractor turns a statement PDF into plain text, page by page: the text
// layer when it is readable, a raster+tesseract pass when it is not.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	return NewExtractorWithRunner(cfg, execRunner{}, logger)
}

// NewExtractorWithRunner is the seam tests use to stub external commands.
func NewExtractorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextLen <= 0 {
		cfg.MinTextLen = 40
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Extract runs the per-page pipeline over a PDF path.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if constants.MapExtToFormat(ext) != constants.PDF {
		e.logger.Error("unsupported statement extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	pages, err := e.pdfToPageText(ctx, path)
	if err != nil {
		return ExtractionResult{}, err
	}
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}

	var b strings.Builder
	ocrPages := 0
	for i, text := range pages {
		if Readable(text, e.cfg.MinTextLen) {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
			continue
		}
		// Text layer too thin: rasterize this page and OCR it. Tool
		// failures propagate; a page with nothing to render degrades
		// to an empty string.
		ocrText, err := e.ocrPage(ctx, path, i+1)
		if err != nil {
			return ExtractionResult{}, err
		}
		ocrPages++
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ocrText)
	}

	method := MethodPDFText
	switch {
	case ocrPages == len(pages) && ocrPages > 0:
		method = MethodPDFOCR
	case ocrPages > 0:
		method = MethodMixed
	}

	res := ExtractionResult{
		Text:     b.String(),
		Pages:    len(pages),
		OCRPages: ocrPages,
		Method:   method,
		Language: e.cfg.TesseractLang,
		Duration: time.Since(start),
	}
	e.logger.Info("ocr.extract.ok",
		"path", path,
		"pages", res.Pages,
		"ocr_pages", res.OCRPages,
		"method", res.Method,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
