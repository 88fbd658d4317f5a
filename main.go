package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"travel-search/config"
	"travel-search/currency"
	"travel-search/interpreter"
	"travel-search/listings"
	"travel-search/listings/booking"
	"travel-search/listings/browser"
	"travel-search/models"
	"travel-search/services"
	"travel-search/storage"
	"travel-search/utils"
)

func main() {
	query := flag.String("query", "", "natural language accommodation search query (required)")
	currencyCode := flag.String("currency", "", "result currency: USD, EUR or GBP")
	language := flag.String("language", "", "result language: en-gb, es, fr or de")
	maxResults := flag.Int("max-results", 0, "maximum number of results (1-50)")
	modelName := flag.String("model", "", "model selector: gpt-4o or gpt-4o-mini")
	debug := flag.Bool("debug", false, "record and print a per-stage debug trace")
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLogger(*debug)

	logger.Info().
		Str("source", cfg.ListingsSource).
		Int("max_concurrency", cfg.MaxConcurrency).
		Int("max_pages", cfg.MaxPages).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("travel search starting")

	rawQuery := &models.RawQuery{
		SearchQuery: *query,
		Currency:    *currencyCode,
		Language:    *language,
		MaxResults:  *maxResults,
		ModelName:   *modelName,
		Debug:       *debug,
	}

	var source listings.Source
	switch cfg.ListingsSource {
	case "browser":
		source = browser.New(cfg.ChromeBin, logger)
	default:
		source = booking.NewClient(cfg.ListingsBaseURL, cfg.ListingsToken, logger)
	}

	interp := interpreter.New(
		interpreter.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
		cfg.ModelTimeout,
		logger,
	)
	fetcher := listings.NewFetcher(source, cfg, logger)
	ranker := services.NewRanker(currency.NewDefaultTable(cfg.CurrencyRates), logger)
	orchestrator := services.NewOrchestrator(interp, fetcher, ranker, cfg.RequestTimeout, logger)

	result, err := orchestrator.Search(context.Background(), rawQuery)
	if err != nil {
		kind := "input"
		var orchErr *models.OrchestrationError
		if errors.As(err, &orchErr) {
			kind = orchErr.Kind
		}
		logger.Error().Str("kind", kind).Err(err).Msg("search failed")
		os.Exit(1)
	}

	services.PrintResults(result, rawQuery)

	if len(result.Results) > 0 {
		writeResults(cfg, rawQuery, result, logger)
	}
}

// writeResults stores the ranked results in the configured sinks. Sink
// failures are logged but never fail a search that already succeeded.
func writeResults(cfg *config.Config, rawQuery *models.RawQuery, result *services.SearchResult, logger zerolog.Logger) {
	if cfg.CSVOutputPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			logger.Error().Err(err).Msg("failed to create CSV writer")
		} else {
			defer csvWriter.Close()
			if err := csvWriter.Write(result.Results); err != nil {
				logger.Error().Err(err).Msg("CSV write failed")
			} else {
				logger.Info().Str("path", cfg.CSVOutputPath).Msg("results saved to CSV")
			}
		}
	}

	if cfg.StoreResults {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), rawQuery.SearchQuery)
		if err != nil {
			logger.Error().Err(err).Msg("failed to connect to PostgreSQL")
			return
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(result.Results); err != nil {
			logger.Error().Err(err).Msg("PostgreSQL write failed")
			return
		}
		logger.Info().Int("rows", len(result.Results)).Msg("results stored in PostgreSQL (table: search_results)")

		if rawQuery.Debug {
			stored, err := pgWriter.FetchAll()
			if err != nil {
				logger.Error().Err(err).Msg("failed to read back stored results")
				return
			}
			for i, r := range stored {
				logger.Debug().
					Int("rank", i+1).
					Str("listing_id", r.ID).
					Float64("score", r.Score).
					Msg("stored result")
			}
		}
	}
}
