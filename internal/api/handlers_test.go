package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/credit-scorer/internal/financials"
	"github.com/user/credit-scorer/internal/ratios"
	"github.com/user/credit-scorer/internal/scoring"
	"github.com/user/credit-scorer/internal/statements"
	"github.com/user/credit-scorer/pkg/config"
)

// emptySource has data for no ticker at all.
type emptySource struct{}

func (emptySource) BalanceSheet(ctx context.Context, ticker string, period statements.Period) (*statements.Table, error) {
	return statements.NewTable(nil), nil
}

func (emptySource) IncomeStatement(ctx context.Context, ticker string, period statements.Period) (*statements.Table, error) {
	return statements.NewTable(nil), nil
}

func (emptySource) Summary(ctx context.Context, ticker string) (*statements.SummaryInfo, error) {
	return &statements.SummaryInfo{}, nil
}

type neutralSentiment struct{}

func (neutralSentiment) Score(ctx context.Context, ticker string) (float64, error) {
	return 0.5, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := emptySource{}
	builder := financials.NewBuilder(src, neutralSentiment{})
	orchestrator := scoring.NewOrchestrator(builder, scoring.NewEngine(scoring.DefaultWeights()), ratios.NewEngine(), src, 1)

	cfg := &config.Config{}
	cfg.App.Env = "production"
	cfg.Scoring.MaxBatchSize = 3
	cfg.Companies = []string{"AAPL"}

	return NewServer(orchestrator, cfg)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := doRequest(newTestServer(t), http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestListCompaniesUsesFallbackNames(t *testing.T) {
	w := doRequest(newTestServer(t), http.MethodGet, "/api/v1/companies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Companies []Company `json:"companies"`
		Count     int       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "AAPL", resp.Companies[0].Ticker)
	assert.Equal(t, "Apple Inc.", resp.Companies[0].Name)
}

func TestCompanyAnalysisNotFound(t *testing.T) {
	w := doRequest(newTestServer(t), http.MethodGet, "/api/v1/companies/NODATA/analysis", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchScoresRejectsOversizedRequest(t *testing.T) {
	body, _ := json.Marshal(BatchScoresRequest{
		Tickers: []string{"A", "B", "C", "D"},
	})
	w := doRequest(newTestServer(t), http.MethodPost, "/api/v1/scores/batch", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchScoresRejectsMissingTickers(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/v1/scores/batch", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(s, http.MethodPost, "/api/v1/scores/batch", []byte(`{"tickers": ["  ", ""]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchScoresReportsCounts(t *testing.T) {
	body, _ := json.Marshal(BatchScoresRequest{Tickers: []string{"aapl", "MSFT"}})
	w := doRequest(newTestServer(t), http.MethodPost, "/api/v1/scores/batch", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Failed         []string `json:"failed"`
		RequestedCount int      `json:"requested_count"`
		ProcessedCount int      `json:"processed_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// No data anywhere: everything requested, nothing processed, tickers
	// uppercased on the way in.
	assert.Equal(t, 2, resp.RequestedCount)
	assert.Equal(t, 0, resp.ProcessedCount)
	assert.Equal(t, []string{"AAPL", "MSFT"}, resp.Failed)
}

func TestBreakdownEndpoint(t *testing.T) {
	w := doRequest(newTestServer(t), http.MethodGet, "/api/v1/breakdown", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp scoring.Breakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 50.0, resp.Weights["altman_weight"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
