package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"travel-search/models"
)

// QueryInterpreter turns a raw query into a validated filter.
type QueryInterpreter interface {
	Interpret(ctx context.Context, q *models.RawQuery) (*models.SearchFilter, models.DebugTrace, error)
}

// CandidateFetcher collects listing candidates for a filter.
type CandidateFetcher interface {
	Fetch(ctx context.Context, filter *models.SearchFilter, rawQuery *models.RawQuery, limitHint int) ([]models.ListingCandidate, error)
}

// SearchResult is the final response for one request.
type SearchResult struct {
	Results []models.RankedResult `json:"results"`
	Trace   models.DebugTrace     `json:"trace,omitempty"`
}

// Orchestrator drives the interpret → fetch → rank pipeline for one
// request under a total wall-clock budget. Configuration is threaded in
// at construction so independent orchestrators can coexist in one
// process.
type Orchestrator struct {
	interpreter QueryInterpreter
	fetcher     CandidateFetcher
	ranker      *Ranker
	budget      time.Duration
	logger      zerolog.Logger
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(interp QueryInterpreter, fetcher CandidateFetcher, ranker *Ranker, budget time.Duration, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		interpreter: interp,
		fetcher:     fetcher,
		ranker:      ranker,
		budget:      budget,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Search runs the full pipeline. Interpretation and total fetch failure
// are fatal and come back wrapped in an OrchestrationError; the request
// budget expiring mid-fetch is not an error — whatever candidates were
// committed by then are ranked and returned.
func (o *Orchestrator) Search(ctx context.Context, rawQuery *models.RawQuery) (*SearchResult, error) {
	if err := rawQuery.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.budget)
	defer cancel()

	var trace models.DebugTrace

	start := time.Now()
	filter, interpTrace, err := o.interpreter.Interpret(ctx, rawQuery)
	if err != nil {
		return nil, &models.OrchestrationError{Kind: "interpretation", Err: err}
	}
	if rawQuery.Debug {
		trace = append(trace, interpTrace...)
		trace = append(trace, stageEntry("interpret", time.Since(start), rawQuery.SearchQuery, jsonSummary(filter)))
	}
	o.logger.Info().Str("location", filter.Location).Msg("query interpreted")

	start = time.Now()
	candidates, err := o.fetcher.Fetch(ctx, filter, rawQuery, rawQuery.MaxResults)
	if err != nil {
		return nil, &models.OrchestrationError{Kind: "fetch", Err: err}
	}
	if rawQuery.Debug {
		trace = append(trace, stageEntry("fetch", time.Since(start),
			jsonSummary(filter), fmt.Sprintf("%d candidates", len(candidates))))
	}

	start = time.Now()
	results := o.ranker.Rank(candidates, filter, rawQuery)
	if rawQuery.Debug {
		trace = append(trace, stageEntry("rank", time.Since(start),
			fmt.Sprintf("%d candidates", len(candidates)),
			fmt.Sprintf("%d results", len(results))))
	}

	o.logger.Info().Int("results", len(results)).Msg("search complete")
	return &SearchResult{Results: results, Trace: trace}, nil
}

func stageEntry(stage string, elapsed time.Duration, input, output string) models.TraceEntry {
	return models.TraceEntry{Stage: stage, Elapsed: elapsed, Input: input, Output: output}
}

func jsonSummary(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
