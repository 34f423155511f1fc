package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/user/credit-scorer/internal/scoring"
)

// fallbackNames maps curated tickers to display names used when the live
// summary lookup is unavailable.
var fallbackNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com Inc.",
	"TSLA":  "Tesla Inc.",
	"META":  "Meta Platforms Inc.",
	"NVDA":  "NVIDIA Corporation",
	"NFLX":  "Netflix Inc.",
	"INTC":  "Intel Corporation",
	"ADBE":  "Adobe Inc.",
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Company is one entry in the curated company list.
type Company struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// handleListCompanies returns the curated ticker list with display names.
func (s *Server) handleListCompanies(c *gin.Context) {
	companies := make([]Company, 0, len(s.config.Companies))
	for _, ticker := range s.config.Companies {
		name, err := s.orchestrator.CompanyName(c.Request.Context(), ticker)
		if err != nil || name == ticker {
			if fallback, ok := fallbackNames[ticker]; ok {
				name = fallback
			} else {
				name = ticker
			}
		}
		companies = append(companies, Company{Ticker: ticker, Name: name})
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"count":     len(companies),
	})
}

// handleCompanyAnalysis returns the full analysis for a single ticker:
// display name, credit scores, financial ratios, and the breakdown chart
// metadata.
func (s *Server) handleCompanyAnalysis(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}

	batch := s.orchestrator.ScoreAll(c.Request.Context(), []string{ticker}, scoring.CalibrationBatch)
	score, ok := batch.Scores[ticker]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no financial data available for " + ticker})
		return
	}

	ratios, err := s.orchestrator.Ratios(c.Request.Context(), ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("ratio computation failed")
		ratios = map[string]string{}
	}

	name, err := s.orchestrator.CompanyName(c.Request.Context(), ticker)
	if err != nil {
		name = ticker
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":           ticker,
		"company_name":     name,
		"credit_scores":    score,
		"financial_ratios": ratios,
		"breakdown":        scoring.ScoreBreakdown(),
	})
}

// BatchScoresRequest represents a batch scoring request.
type BatchScoresRequest struct {
	Tickers []string `json:"tickers" binding:"required"`
}

// CompanyResult is the per-ticker payload in a batch scoring response.
type CompanyResult struct {
	CompanyName     string            `json:"company_name"`
	CreditScores    scoring.Result    `json:"credit_scores"`
	FinancialRatios map[string]string `json:"financial_ratios"`
}

// handleBatchScores scores a list of tickers. Requests above the configured
// batch limit are rejected outright rather than truncated.
func (s *Server) handleBatchScores(c *gin.Context) {
	var req BatchScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tickers is required"})
		return
	}

	tickers := make([]string, 0, len(req.Tickers))
	for _, t := range req.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tickers is required"})
		return
	}
	if max := s.config.Scoring.MaxBatchSize; len(tickers) > max {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many tickers requested"})
		return
	}

	batch := s.orchestrator.ScoreAll(c.Request.Context(), tickers, scoring.CalibrationBatch)

	results := make(map[string]CompanyResult, len(batch.Scores))
	for ticker, score := range batch.Scores {
		ratios, err := s.orchestrator.Ratios(c.Request.Context(), ticker)
		if err != nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("ratio computation failed")
			ratios = map[string]string{}
		}
		name, err := s.orchestrator.CompanyName(c.Request.Context(), ticker)
		if err != nil {
			name = ticker
		}
		results[ticker] = CompanyResult{
			CompanyName:     name,
			CreditScores:    score,
			FinancialRatios: ratios,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":         results,
		"failed":          batch.Failed,
		"requested_count": batch.RequestedCount,
		"processed_count": batch.ProcessedCount,
		"breakdown":       scoring.ScoreBreakdown(),
	})
}

// handleBreakdown returns the static score breakdown chart metadata.
func (s *Server) handleBreakdown(c *gin.Context) {
	c.JSON(http.StatusOK, scoring.ScoreBreakdown())
}
