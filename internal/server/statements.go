package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/om0401/CreditCardDataExtraction/constants"
	"github.com/om0401/CreditCardDataExtraction/internal/common"
	"github.com/om0401/CreditCardDataExtraction/internal/services/statements"
)

type StatementHandler struct {
	svc            *statements.Service
	maxUploadBytes int64
	logger         *slog.Logger
}

// Upload accepts one statement PDF (multipart field "file") plus optional
// repeated "fields" values, runs the extraction synchronously, and returns
// the structured result.
func (h *StatementHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(file.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF statements are accepted"})
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	fields := c.PostFormArray("fields")
	for _, f := range fields {
		if !constants.IsField(f) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown field: " + f})
			return
		}
	}

	tmpDir, err := os.MkdirTemp("", "ccx-upload-*")
	if err != nil {
		h.logger.Error("upload.tempdir_error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			h.logger.Warn("upload.cleanup_error", "dir", tmpDir, "error", err)
		}
	}()

	path := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		h.logger.Error("upload.save_error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	st, err := h.svc.Extract(c.Request.Context(), path, file.Filename, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *StatementHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	st, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StatementHandler) List(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	items, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statements": items})
}

func (h *StatementHandler) SummaryCSV(c *gin.Context) {
	h.download(c, h.svc.SummaryCSV, "text/csv")
}

func (h *StatementHandler) TransactionsCSV(c *gin.Context) {
	h.download(c, h.svc.TransactionsCSV, "text/csv")
}

func (h *StatementHandler) WorkbookXLSX(c *gin.Context) {
	h.download(c, h.svc.WorkbookXLSX,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *StatementHandler) download(c *gin.Context, render func(ctx context.Context, id uuid.UUID) ([]byte, string, error), contentType string) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	data, filename, err := render(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

func (h *StatementHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid statement id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *StatementHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "statement not found"})
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			"req_id", common.RequestIDFromContext(c.Request.Context()),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
