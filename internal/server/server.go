// Package server exposes the extraction service over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/om0401/CreditCardDataExtraction/internal/common"
	"github.com/om0401/CreditCardDataExtraction/internal/services/statements"
)

// NewRouter wires the HTTP routes.
func NewRouter(svc *statements.Service, maxUploadBytes int64, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestID())
	if maxUploadBytes > 0 {
		r.MaxMultipartMemory = maxUploadBytes
	}

	h := &StatementHandler{svc: svc, maxUploadBytes: maxUploadBytes, logger: logger}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/v1")
	api.POST("/statements", h.Upload)
	api.GET("/statements", h.List)
	api.GET("/statements/:id", h.Get)
	api.GET("/statements/:id/summary.csv", h.SummaryCSV)
	api.GET("/statements/:id/transactions.csv", h.TransactionsCSV)
	api.GET("/statements/:id/export.xlsx", h.WorkbookXLSX)

	return r
}

// requestID tags every request with an ID, honoring one supplied by the
// caller, and echoes it back in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
