package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prizepress/prizepress/internal/domain"
	"github.com/prizepress/prizepress/internal/issuer"
	"github.com/prizepress/prizepress/internal/printer"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// IssueBatch mints a new token batch
	// POST /api/v1/batches
	IssueBatch(c *gin.Context)

	// GetBatchDocument renders a batch into a print-ready PDF
	// GET /api/v1/batches/:id/document?template_id=<id>&max_tokens=<n>
	GetBatchDocument(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	issuer  *issuer.Service
	printer *printer.Service
}

// NewHandler creates a new REST API handler
func NewHandler(issuerSvc *issuer.Service, printerSvc *printer.Service) Handler {
	return &handler{
		issuer:  issuerSvc,
		printer: printerSvc,
	}
}

// IssueBatch mints a new token batch
func (h *handler) IssueBatch(c *gin.Context) {
	var req IssueBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	requests := make([]issuer.PrizeRequest, 0, len(req.Requests))
	for _, entry := range req.Requests {
		requests = append(requests, issuer.PrizeRequest{
			PrizeID:      entry.PrizeID,
			Count:        entry.Count,
			ValidityDays: entry.ValidityDays,
			RetryPair:    entry.RetryPair,
		})
	}

	result, err := h.issuer.IssueBatch(c.Request.Context(), requests, issuer.IssueOptions{
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			respondValidationError(c, err.Error())
		case errors.Is(err, domain.ErrPrizeNotFound):
			respondNotFound(c, "Prize not found", err.Error())
		case errors.Is(err, domain.ErrInsufficientStock):
			respondConflict(c, errCodeInsufficientStock, "Insufficient stock", err.Error())
		default:
			respondInternalError(c, err, "Failed to issue batch")
		}
		return
	}

	c.JSON(http.StatusCreated, IssueBatchResponse{
		Batch: BatchDTO{
			ID:             result.Batch.ID,
			Description:    result.Batch.Description,
			FunctionalDate: result.Batch.FunctionalDate,
			CreatedAt:      result.Batch.CreatedAt,
		},
		Tokens:  len(result.Tokens),
		Emitted: result.Emitted,
	})
}

// GetBatchDocument renders a batch into a print-ready PDF
func (h *handler) GetBatchDocument(c *gin.Context) {
	batchID := c.Param("id")
	if batchID == "" {
		respondBadRequest(c, "Batch ID is required")
		return
	}

	maxTokens := 0
	if raw := c.Query("max_tokens"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "max_tokens must be a positive integer")
			return
		}
		maxTokens = parsed
	}

	result, err := h.printer.RenderBatchDocument(c.Request.Context(), batchID, c.Query("template_id"), maxTokens)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBatchNotFound):
			respondNotFound(c, "Batch not found or empty", err.Error())
		case errors.Is(err, domain.ErrTemplateMissing), errors.Is(err, domain.ErrTemplateFileMissing):
			respondNotFound(c, "Print template not available", err.Error())
		case errors.Is(err, domain.ErrLayoutGrid):
			respondInternalError(c, err, "Template grid is invalid", zap.String("batch_id", batchID))
		default:
			respondInternalError(c, err, "Failed to render document", zap.String("batch_id", batchID))
		}
		return
	}

	c.Header("X-Tokens-Requested", strconv.Itoa(result.Requested))
	c.Header("X-Tokens-Processed", strconv.Itoa(result.Processed))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
