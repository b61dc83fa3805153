package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// pdfToPageText extracts the text layer per page. pdftotext separates
// pages with a form-feed \f.
func (e *Extractor) pdfToPageText(ctx context.Context, path string) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	pages := strings.Split(string(out), "\f")
	// pdftotext leaves a trailing \f after the last page
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}

// ocrPage rasterizes a single page and runs tesseract over the image.
// A page that renders to no image at all yields an empty string.
func (e *Extractor) ocrPage(ctx context.Context, path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ccx-pp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r 300 -png <in.pdf> <tmp/page>
	pageArg := fmt.Sprintf("%d", page)
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", pageArg, "-l", pageArg,
		"-r", fmt.Sprintf("%d", e.cfg.DPI),
		"-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w: %s", page, err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		e.logger.Warn("page rendered no image, treating as empty", "path", path, "page", page)
		return "", nil
	}

	txt, err := e.tesseractOCR(ctx, matches[0])
	if err != nil {
		return "", err
	}
	return Normalize(txt), nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, imgPath string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, imgPath, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
