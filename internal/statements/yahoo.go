package statements

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultYahooBaseURL = "https://query2.finance.yahoo.com"
	crumbTTL            = 1 * time.Hour
	userAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// YahooConfig configures the Yahoo Finance statement source.
type YahooConfig struct {
	BaseURL            string
	Timeout            time.Duration
	RetryAttempts      int
	MinRequestInterval time.Duration
}

// YahooSource implements Source against the Yahoo Finance quoteSummary API.
// Yahoo requires session cookies plus a "crumb" token on data endpoints; the
// crumb is cached for an hour and refreshed on auth failures.
type YahooSource struct {
	baseURL     string
	client      *http.Client
	retries     int
	minInterval time.Duration

	mu          sync.Mutex
	lastRequest time.Time

	crumbMu  sync.Mutex
	crumb    string
	crumbExp time.Time
}

// NewYahooSource creates a Yahoo Finance statement source.
func NewYahooSource(cfg YahooConfig) *YahooSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultYahooBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.MinRequestInterval <= 0 {
		cfg.MinRequestInterval = 200 * time.Millisecond
	}
	jar, _ := cookiejar.New(nil)
	return &YahooSource{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		client:      &http.Client{Timeout: cfg.Timeout, Jar: jar},
		retries:     cfg.RetryAttempts,
		minInterval: cfg.MinRequestInterval,
	}
}

// BalanceSheet returns the balance sheet table for the period.
func (y *YahooSource) BalanceSheet(ctx context.Context, ticker string, period Period) (*Table, error) {
	module := "balanceSheetHistory"
	if period == PeriodQuarterly {
		module = "balanceSheetHistoryQuarterly"
	}
	return y.fetchStatement(ctx, ticker, module)
}

// IncomeStatement returns the income statement table for the period.
func (y *YahooSource) IncomeStatement(ctx context.Context, ticker string, period Period) (*Table, error) {
	module := "incomeStatementHistory"
	if period == PeriodQuarterly {
		module = "incomeStatementHistoryQuarterly"
	}
	return y.fetchStatement(ctx, ticker, module)
}

// Summary fetches the price/summary modules and resolves them into the
// typed SummaryInfo once, so nothing downstream pokes at a raw dictionary.
func (y *YahooSource) Summary(ctx context.Context, ticker string) (*SummaryInfo, error) {
	modules, err := y.fetchModules(ctx, ticker, "price,summaryDetail,financialData,defaultKeyStatistics")
	if err != nil {
		return nil, err
	}

	info := &SummaryInfo{}

	var price struct {
		LongName           string   `json:"longName"`
		ShortName          string   `json:"shortName"`
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
		MarketCap          rawValue `json:"marketCap"`
	}
	if raw, ok := modules["price"]; ok && json.Unmarshal(raw, &price) == nil {
		info.Name = price.LongName
		if info.Name == "" {
			info.Name = price.ShortName
		}
		info.Price = price.RegularMarketPrice.cell()
		info.MarketCap = price.MarketCap.cell()
	}

	var detail struct {
		TrailingPE rawValue `json:"trailingPE"`
		MarketCap  rawValue `json:"marketCap"`
	}
	if raw, ok := modules["summaryDetail"]; ok && json.Unmarshal(raw, &detail) == nil {
		info.TrailingPE = detail.TrailingPE.cell()
		if !info.MarketCap.Valid {
			info.MarketCap = detail.MarketCap.cell()
		}
	}

	var stats struct {
		TrailingEps rawValue `json:"trailingEps"`
	}
	if raw, ok := modules["defaultKeyStatistics"]; ok && json.Unmarshal(raw, &stats) == nil {
		info.TrailingEPS = stats.TrailingEps.cell()
	}

	var fin struct {
		CurrentPrice      rawValue `json:"currentPrice"`
		ReturnOnEquity    rawValue `json:"returnOnEquity"`
		ReturnOnAssets    rawValue `json:"returnOnAssets"`
		TotalDebt         rawValue `json:"totalDebt"`
		TotalCash         rawValue `json:"totalCash"`
		NetIncomeToCommon rawValue `json:"netIncomeToCommon"`
	}
	if raw, ok := modules["financialData"]; ok && json.Unmarshal(raw, &fin) == nil {
		if !info.Price.Valid {
			info.Price = fin.CurrentPrice.cell()
		}
		info.ReturnOnEquity = fin.ReturnOnEquity.cell()
		info.ReturnOnAssets = fin.ReturnOnAssets.cell()
		info.TotalDebt = fin.TotalDebt.cell()
		info.Cash = fin.TotalCash.cell()
		info.NetIncome = fin.NetIncomeToCommon.cell()
	}

	return info, nil
}

// rawValue is Yahoo's {raw, fmt} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v rawValue) cell() Cell {
	if v.Raw == nil {
		return Cell{}
	}
	return Num(*v.Raw)
}

// fetchStatement pulls one statement-history module and flattens it into a
// Table. Payloads are decoded generically: any line item carrying a raw
// number becomes a row, whatever the vendor decided to call it, which is
// exactly what the fuzzy lookup expects to chew on.
func (y *YahooSource) fetchStatement(ctx context.Context, ticker, module string) (*Table, error) {
	modules, err := y.fetchModules(ctx, ticker, module)
	if err != nil {
		return nil, err
	}
	raw, ok := modules[module]
	if !ok {
		return NewTable(nil), nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("decoding %s module: %w", module, err)
	}

	// The statement list sits under a module-specific key
	// (balanceSheetStatements, incomeStatementHistory, ...). Take the first
	// key that decodes as a list of objects.
	var entries []map[string]json.RawMessage
	for key, inner := range wrapper {
		if key == "maxAge" {
			continue
		}
		var candidate []map[string]json.RawMessage
		if json.Unmarshal(inner, &candidate) == nil && candidate != nil {
			entries = candidate
			break
		}
	}

	columns := make([]string, 0, len(entries))
	for i, entry := range entries {
		var end rawValue
		col := fmt.Sprintf("period-%d", i)
		if raw, ok := entry["endDate"]; ok && json.Unmarshal(raw, &end) == nil {
			if end.Fmt != "" {
				col = end.Fmt
			} else if end.Raw != nil {
				col = time.Unix(int64(*end.Raw), 0).UTC().Format("2006-01-02")
			}
		}
		columns = append(columns, col)
	}

	table := NewTable(columns)
	var labels []string
	rows := make(map[string][]Cell)
	for i, entry := range entries {
		for key, raw := range entry {
			if key == "endDate" || key == "maxAge" {
				continue
			}
			var v rawValue
			if json.Unmarshal(raw, &v) != nil || v.Raw == nil {
				continue
			}
			row, seen := rows[key]
			if !seen {
				row = make([]Cell, len(columns))
				labels = append(labels, key)
			}
			row[i] = Num(*v.Raw)
			rows[key] = row
		}
	}
	for _, label := range labels {
		table.AddRow(label, rows[label])
	}

	log.Debug().
		Str("ticker", ticker).
		Str("module", module).
		Int("periods", len(columns)).
		Int("line_items", len(labels)).
		Msg("statement fetched")

	return table, nil
}

// fetchModules calls quoteSummary for the given modules and returns the
// per-module payloads from the first result.
func (y *YahooSource) fetchModules(ctx context.Context, ticker, modules string) (map[string]json.RawMessage, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	body, status, err := y.fetchWithCrumb(ctx, ticker, modules)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		// Stale crumb; invalidate and retry once with a fresh one.
		y.crumbMu.Lock()
		y.crumb = ""
		y.crumbExp = time.Time{}
		y.crumbMu.Unlock()
		body, status, err = y.fetchWithCrumb(ctx, ticker, modules)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("quoteSummary for %s returned %d", ticker, status)
	}

	var payload struct {
		QuoteSummary struct {
			Result []map[string]json.RawMessage `json:"result"`
			Error  *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"quoteSummary"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding quoteSummary response: %w", err)
	}
	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error for %s: %s", ticker, payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	return payload.QuoteSummary.Result[0], nil
}

func (y *YahooSource) fetchWithCrumb(ctx context.Context, ticker, modules string) ([]byte, int, error) {
	crumb, err := y.getCrumb(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("obtaining crumb: %w", err)
	}
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s&crumb=%s",
		y.baseURL, ticker, modules, crumb)
	return y.get(ctx, url)
}

// get performs a GET with rate limiting and bounded retry. Network errors,
// 429s and 5xx responses are retried with exponential backoff plus jitter;
// other statuses are returned to the caller.
func (y *YahooSource) get(ctx context.Context, url string) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt < y.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(250 * time.Millisecond)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}

		if err := y.throttle(ctx); err != nil {
			return nil, 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := y.client.Do(req)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("statement source request failed")
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("statement source returned %d", resp.StatusCode)
			log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("retrying statement source request")
			continue
		}
		return body, resp.StatusCode, nil
	}
	return nil, 0, fmt.Errorf("statement source unreachable after %d attempts: %w", y.retries, lastErr)
}

// throttle enforces the minimum delay between requests to the source.
func (y *YahooSource) throttle(ctx context.Context) error {
	y.mu.Lock()
	elapsed := time.Since(y.lastRequest)
	if elapsed < y.minInterval {
		wait := y.minInterval - elapsed
		y.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		y.mu.Lock()
	}
	y.lastRequest = time.Now()
	y.mu.Unlock()
	return nil
}

// getCrumb fetches the crumb token, establishing session cookies first.
func (y *YahooSource) getCrumb(ctx context.Context) (string, error) {
	y.crumbMu.Lock()
	defer y.crumbMu.Unlock()

	if y.crumb != "" && time.Now().Before(y.crumbExp) {
		return y.crumb, nil
	}

	// Hitting any Yahoo property seeds the cookie jar; status is irrelevant.
	seedReq, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://fc.yahoo.com", nil)
	if err != nil {
		return "", fmt.Errorf("creating seed request: %w", err)
	}
	seedReq.Header.Set("User-Agent", userAgent)
	if seedResp, err := y.client.Do(seedReq); err == nil {
		seedResp.Body.Close()
	}

	crumbReq, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", fmt.Errorf("creating crumb request: %w", err)
	}
	crumbReq.Header.Set("User-Agent", userAgent)

	resp, err := y.client.Do(crumbReq)
	if err != nil {
		return "", fmt.Errorf("crumb request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading crumb response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crumb endpoint returned %d", resp.StatusCode)
	}

	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", fmt.Errorf("empty crumb returned")
	}

	y.crumb = crumb
	y.crumbExp = time.Now().Add(crumbTTL)
	return crumb, nil
}
