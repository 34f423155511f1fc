// Package main is the entry point for the credit scoring service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user/credit-scorer/internal/api"
	"github.com/user/credit-scorer/internal/classifier"
	"github.com/user/credit-scorer/internal/financials"
	"github.com/user/credit-scorer/internal/ratios"
	"github.com/user/credit-scorer/internal/scoring"
	"github.com/user/credit-scorer/internal/sentiment"
	"github.com/user/credit-scorer/internal/statements"
	"github.com/user/credit-scorer/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg)

	// Statement source
	source := statements.NewYahooSource(statements.YahooConfig{
		BaseURL:            cfg.Statements.BaseURL,
		Timeout:            cfg.Statements.Timeout,
		RetryAttempts:      cfg.Statements.RetryAttempts,
		MinRequestInterval: cfg.Statements.MinRequestInterval,
	})

	// Headline classifier is optional; without one, sentiment falls back to
	// keyword analysis.
	var provider classifier.Provider
	if cfg.Sentiment.UseClassifier {
		provider, err = classifier.NewProvider(&cfg.Classifier)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize headline classifier, continuing with keyword sentiment")
			provider = nil
		} else {
			log.Info().Str("provider", provider.Name()).Msg("headline classifier initialized")
		}
	}

	fetcher := sentiment.NewFetcher(cfg.Sentiment.FeedURL, cfg.Sentiment.MaxHeadlines)
	newsScorer := sentiment.NewNewsScorer(fetcher, provider)

	builder := financials.NewBuilder(source, newsScorer)
	engine := scoring.NewEngine(scoring.Weights{
		Altman:    cfg.Scoring.WeightAltman,
		Ohlson:    cfg.Scoring.WeightOhlson,
		Sentiment: cfg.Scoring.WeightSentiment,
	})
	orchestrator := scoring.NewOrchestrator(builder, engine, ratios.NewEngine(), source, cfg.Scoring.Concurrency)

	server := api.NewServer(orchestrator, cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// setupLogging configures the global zerolog logger from config.
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
