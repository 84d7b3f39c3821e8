package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/foodbuddy/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// maxImageBytes bounds label photo uploads (Rekognition accepts up to 5 MB inline)
const maxImageBytes = 5 << 20

// Services groups the use cases served over HTTP. Any of them may be nil,
// in which case its endpoints answer 501.
type Services struct {
	Analysis     *usecase.AnalysisService
	Compare      *usecase.CompareService
	Sessions     *usecase.CompareSessions
	History      *usecase.HistoryService
	ShoppingList *usecase.ShoppingListService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis *usecase.AnalysisService
	compare  *usecase.CompareService
	sessions *usecase.CompareSessions
	history  *usecase.HistoryService
	shopping *usecase.ShoppingListService
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services) *Handler {
	return &Handler{
		analysis: services.Analysis,
		compare:  services.Compare,
		sessions: services.Sessions,
		history:  services.History,
		shopping: services.ShoppingList,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodbuddy-backend",
		"version": "1.0.0",
	})
}

// ─── Analysis ────────────────────────────────────────────────────────────────

// Analyze handles single-product analysis requests
func (h *Handler) Analyze(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c, "Analysis")
		return
	}

	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients text is required"})
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeImage handles label photo uploads
func (h *Handler) AnalyzeImage(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c, "Analysis")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	save := c.PostForm("save") == "true"
	result, err := h.analysis.AnalyzeImage(c.Request.Context(), image, c.PostForm("context"), save)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ─── Compare ─────────────────────────────────────────────────────────────────

// Compare handles two-product comparisons
func (h *Handler) Compare(c *gin.Context) {
	if h.compare == nil {
		notImplemented(c, "Compare")
		return
	}

	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productA and productB are required"})
		return
	}

	result, err := h.compare.Compare(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type startSessionRequest struct {
	Ingredients string `json:"ingredients" binding:"required"`
	Context     string `json:"context,omitempty"`
}

type submitSessionRequest struct {
	Ingredients string `json:"ingredients" binding:"required"`
}

// StartCompareSession enters compare mode with the first product
func (h *Handler) StartCompareSession(c *gin.Context) {
	if h.sessions == nil {
		notImplemented(c, "Compare")
		return
	}

	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients text is required"})
		return
	}

	session, err := h.sessions.Start(req.Ingredients, req.Context)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetCompareSession returns the state of a compare session
func (h *Handler) GetCompareSession(c *gin.Context) {
	if h.sessions == nil {
		notImplemented(c, "Compare")
		return
	}

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitCompareSession supplies the second product and runs the comparison
func (h *Handler) SubmitCompareSession(c *gin.Context) {
	if h.sessions == nil {
		notImplemented(c, "Compare")
		return
	}

	var req submitSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients text is required"})
		return
	}

	session, err := h.sessions.Submit(c.Request.Context(), c.Param("id"), req.Ingredients)
	if err != nil {
		status, message := errorStatus(err)
		body := gin.H{"error": message}
		if session != nil {
			if session.Error != "" {
				session.Error = message
			}
			body["session"] = session
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ExitCompareSession leaves compare mode
func (h *Handler) ExitCompareSession(c *gin.Context) {
	if h.sessions == nil {
		notImplemented(c, "Compare")
		return
	}

	if _, err := h.sessions.Exit(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── History ─────────────────────────────────────────────────────────────────

// ListHistory returns saved analyses, newest first
func (h *Handler) ListHistory(c *gin.Context) {
	if h.history == nil {
		notImplemented(c, "History")
		return
	}

	items, err := h.history.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// HistoryStats returns the score summary of saved analyses
func (h *Handler) HistoryStats(c *gin.Context) {
	if h.history == nil {
		notImplemented(c, "History")
		return
	}

	stats, err := h.history.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetHistoryItem returns a single saved analysis
func (h *Handler) GetHistoryItem(c *gin.Context) {
	if h.history == nil {
		notImplemented(c, "History")
		return
	}

	item, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ExportHistoryItem returns a saved analysis as a plain-text report
func (h *Handler) ExportHistoryItem(c *gin.Context) {
	if h.history == nil {
		notImplemented(c, "History")
		return
	}

	report, err := h.history.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, report)
}

// ClearHistory removes every saved analysis
func (h *Handler) ClearHistory(c *gin.Context) {
	if h.history == nil {
		notImplemented(c, "History")
		return
	}

	if err := h.history.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Shopping list ───────────────────────────────────────────────────────────

type shoppingItemRequest struct {
	Item string `json:"item" binding:"required"`
}

// ListShoppingItems returns the shopping list
func (h *Handler) ListShoppingItems(c *gin.Context) {
	if h.shopping == nil {
		notImplemented(c, "Shopping list")
		return
	}

	items, err := h.shopping.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddShoppingItem appends an item to the shopping list
func (h *Handler) AddShoppingItem(c *gin.Context) {
	if h.shopping == nil {
		notImplemented(c, "Shopping list")
		return
	}

	var req shoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}

	if err := h.shopping.Add(c.Request.Context(), req.Item); err != nil {
		respondError(c, err)
		return
	}
	h.writeShoppingList(c, http.StatusCreated)
}

// RemoveShoppingItem removes the first matching item
func (h *Handler) RemoveShoppingItem(c *gin.Context) {
	if h.shopping == nil {
		notImplemented(c, "Shopping list")
		return
	}

	if err := h.shopping.Remove(c.Request.Context(), c.Query("item")); err != nil {
		respondError(c, err)
		return
	}
	h.writeShoppingList(c, http.StatusOK)
}

// ClearShoppingList empties the shopping list
func (h *Handler) ClearShoppingList(c *gin.Context) {
	if h.shopping == nil {
		notImplemented(c, "Shopping list")
		return
	}

	if err := h.shopping.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeShoppingList writes the current list with the given status
func (h *Handler) writeShoppingList(c *gin.Context, status int) {
	items, err := h.shopping.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"items": items})
}

// ─── Errors ──────────────────────────────────────────────────────────────────

func notImplemented(c *gin.Context, feature string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": feature + " is not configured on this server",
	})
}

func respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": message})
}

// errorStatus maps domain errors to an HTTP status and a client-safe message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, clientMessage(err)
	case errors.Is(err, domain.ErrNoTextDetected):
		return http.StatusUnprocessableEntity, domain.ErrNoTextDetected.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, clientMessage(err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, clientMessage(err)
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, domain.ErrRateLimited.Error()
	case errors.Is(err, domain.ErrOCRUnavailable):
		return http.StatusNotImplemented, domain.ErrOCRUnavailable.Error()
	case errors.Is(err, domain.ErrUpstreamFailure), errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, domain.MsgAnalysisFailed
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, domain.MsgAnalysisFailed
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// clientMessage drops the "product A: " style prefixes added while wrapping
// and keeps the caller-facing part of the message
func clientMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}
	return msg
}
