package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/infrastructure/metrics"
	"github.com/dermalens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analyzer      *usecase.AnalyzerService
	adminPassword string
}

// NewHandler creates a new HTTP handler
func NewHandler(analyzer *usecase.AnalyzerService, adminPassword string) *Handler {
	return &Handler{
		analyzer:      analyzer,
		adminPassword: adminPassword,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dermalens-backend",
		"version": "1.0.0",
	})
}

// AnalyzeProduct handles product analysis requests
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AnalysesTotal.WithLabelValues("invalid_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "productName is required",
		})
		return
	}

	start := time.Now()
	analysis, err := h.analyzer.AnalyzeProduct(c.Request.Context(), req.ProductName)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			metrics.AnalysesTotal.WithLabelValues("invalid_request").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "productName must be at least 2 characters",
			})
			return
		}
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		slog.Error("Analysis failed", "product", req.ProductName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "analysis failed",
		})
		return
	}

	for _, report := range analysis.IngredientsAnalysis {
		metrics.ResolutionsBySource.WithLabelValues(string(report.Source)).Inc()
	}
	if len(analysis.IngredientsAnalysis) == 0 {
		metrics.AnalysesTotal.WithLabelValues("fallback").Inc()
	} else {
		metrics.AnalysesTotal.WithLabelValues("success").Inc()
	}

	c.JSON(http.StatusOK, analysis)
}

// ClearCache handles the password-protected cache reset
func (h *Handler) ClearCache(c *gin.Context) {
	if h.adminPassword == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "admin password not configured",
		})
		return
	}

	var req domain.ClearCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password != h.adminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid password",
		})
		return
	}

	if err := h.analyzer.ClearCache(c.Request.Context()); err != nil {
		slog.Error("Cache clear failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to clear cache",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cache cleared successfully",
	})
}
