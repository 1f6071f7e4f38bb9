package server

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bgsummarizer/internal/compare"
	"bgsummarizer/internal/extract"
)

const (
	// minTextLength guards against burning model invocations on failed
	// extractions: a legitimate game page always yields more than this.
	minTextLength = 100

	// batchTimeout bounds one whole comparison batch; invocations still
	// pending at the deadline are reported as timed-out failures.
	batchTimeout = 300 * time.Second
)

// HealthHandler returns server health status
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   "1.0.0",
		Timestamp: time.Now(),
	})
}

// SummarizeHandler drives one comparison batch: decode body, extract game
// text, fan out to the configured models, envelope the results.
type SummarizeHandler struct {
	extractor  *extract.Extractor
	comparator *compare.Comparator
	models     []string
	timeout    time.Duration
}

// NewSummarizeHandler wires the handler with its collaborators. The model
// list is fixed at startup; callers cannot choose models per request.
func NewSummarizeHandler(extractor *extract.Extractor, comparator *compare.Comparator, models []string) *SummarizeHandler {
	return &SummarizeHandler{
		extractor:  extractor,
		comparator: comparator,
		models:     models,
		timeout:    batchTimeout,
	}
}

// Handle processes POST /api/summarize. The body is raw page HTML, or
// base64 of it when Content-Transfer-Encoding: base64 is set.
func (h *SummarizeHandler) Handle(c *gin.Context) {
	logCtx := &LogContext{RequestID: RequestID(c), Operation: "summarize"}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AppLogger.ErrorWithContext(logCtx, "Failed to read request body: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Missing request body",
			Message: "Request body could not be read",
			Code:    http.StatusBadRequest,
		})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Missing request body",
			Code:  http.StatusBadRequest,
		})
		return
	}

	if c.GetHeader("Content-Transfer-Encoding") == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			AppLogger.WarnWithContext(logCtx, "Request body is not valid base64: %v", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Message: "Body is flagged base64-encoded but could not be decoded",
				Code:    http.StatusBadRequest,
			})
			return
		}
		body = decoded
	}

	AppLogger.InfoWithContext(logCtx, "Received HTML content length: %d characters", len(body))

	doc, err := h.extractor.Extract(body)
	if err != nil {
		AppLogger.ErrorWithContext(logCtx, "Extraction failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Message: "Failed to process document",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	AppLogger.InfoWithContext(logCtx, "Extracted text length: %d characters", len(doc.Text))

	if len(doc.Text) < minTextLength {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Insufficient text content extracted from HTML",
			Code:  http.StatusBadRequest,
		})
		return
	}

	AppLogger.InfoWithContext(logCtx, "Comparing %d models: %v", len(h.models), h.models)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results := h.comparator.Compare(ctx, doc.Text, h.models)

	c.JSON(http.StatusOK, SummarizeResponse{
		TextLength:     len(doc.Text),
		ModelsCompared: len(h.models),
		Results:        results,
	})
}

// ModelsHandler reports the configured model list and how each ID is
// classified.
func ModelsHandler(comparator *compare.Comparator, models []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := make([]ModelInfo, 0, len(models))
		for _, id := range models {
			infos = append(infos, ModelInfo{
				ID:     id,
				Family: comparator.Registry().Classify(id).Name(),
			})
		}
		c.JSON(http.StatusOK, ModelsResponse{
			Models: infos,
			Count:  len(infos),
		})
	}
}
