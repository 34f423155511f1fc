package scoring

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/user/credit-scorer/internal/financials"
	"github.com/user/credit-scorer/internal/ratios"
	"github.com/user/credit-scorer/internal/statements"
)

// BatchResult holds the outcome of scoring a list of tickers. Tickers that
// failed are absent from Scores and listed in Failed; one bad ticker never
// aborts the rest.
type BatchResult struct {
	Scores         map[string]Result `json:"scores"`
	Failed         []string          `json:"failed"`
	RequestedCount int               `json:"requested_count"`
	ProcessedCount int               `json:"processed_count"`
}

// Orchestrator runs the scoring and ratio pipelines over tickers. It is the
// facade the API layer talks to.
type Orchestrator struct {
	builder     *financials.Builder
	engine      *Engine
	ratioEngine *ratios.Engine
	statements  statements.Source
	concurrency int
}

// NewOrchestrator creates a batch orchestrator. concurrency bounds how many
// tickers are processed at once; values below 1 mean sequential.
func NewOrchestrator(builder *financials.Builder, engine *Engine, ratioEngine *ratios.Engine, stmts statements.Source, concurrency int) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		builder:     builder,
		engine:      engine,
		ratioEngine: ratioEngine,
		statements:  stmts,
		concurrency: concurrency,
	}
}

// ScoreAll scores each ticker independently under the given calibration.
// Ticker lookups are embarrassingly parallel, so they run on a bounded
// worker group; results are keyed by ticker so completion order is
// irrelevant.
func (o *Orchestrator) ScoreAll(ctx context.Context, tickers []string, cal Calibration) *BatchResult {
	result := &BatchResult{
		Scores:         make(map[string]Result, len(tickers)),
		RequestedCount: len(tickers),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			log.Info().Str("ticker", ticker).Msg("processing ticker")

			score, err := o.scoreOne(gctx, ticker, cal)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, financials.ErrNoData) {
					log.Warn().Str("ticker", ticker).Msg("no financial data available")
				} else {
					log.Error().Err(err).Str("ticker", ticker).Msg("failed to process ticker")
				}
				result.Failed = append(result.Failed, ticker)
				return nil
			}
			result.Scores[ticker] = *score
			return nil
		})
	}
	// Workers swallow per-ticker errors, so Wait only reflects ctx.
	_ = g.Wait()

	sort.Strings(result.Failed)
	result.ProcessedCount = len(result.Scores)

	if len(result.Failed) > 0 {
		log.Warn().Strs("failed", result.Failed).Msg("some tickers failed")
	}
	log.Info().
		Int("processed", result.ProcessedCount).
		Int("requested", result.RequestedCount).
		Msg("batch scoring complete")

	return result
}

func (o *Orchestrator) scoreOne(ctx context.Context, ticker string, cal Calibration) (*Result, error) {
	fin, err := o.builder.Build(ctx, ticker)
	if err != nil {
		return nil, err
	}
	score := o.engine.Score(fin, cal)
	log.Info().Str("ticker", ticker).Float64("score", score.BaseScore).Str("grade", score.Grade).Msg("ticker scored")
	return &score, nil
}

// Ratios fetches the full statement set for a ticker and computes its ratio
// table.
func (o *Orchestrator) Ratios(ctx context.Context, ticker string) (map[string]string, error) {
	data := &ratios.TickerData{}
	var err error

	if data.AnnualBalance, err = o.statements.BalanceSheet(ctx, ticker, statements.PeriodAnnual); err != nil {
		return nil, err
	}
	if data.QuarterlyBalance, err = o.statements.BalanceSheet(ctx, ticker, statements.PeriodQuarterly); err != nil {
		return nil, err
	}
	if data.AnnualIncome, err = o.statements.IncomeStatement(ctx, ticker, statements.PeriodAnnual); err != nil {
		return nil, err
	}
	if data.QuarterlyIncome, err = o.statements.IncomeStatement(ctx, ticker, statements.PeriodQuarterly); err != nil {
		return nil, err
	}
	if data.Summary, err = o.statements.Summary(ctx, ticker); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("summary info unavailable for ratios")
		data.Summary = nil
	}

	return o.ratioEngine.Compute(ticker, data), nil
}

// CompanyName looks up the display name for a ticker from the summary info.
func (o *Orchestrator) CompanyName(ctx context.Context, ticker string) (string, error) {
	summary, err := o.statements.Summary(ctx, ticker)
	if err != nil {
		return "", err
	}
	if summary.Name == "" {
		return ticker, nil
	}
	return summary.Name, nil
}
