package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"travel-search/models"
)

// ModelClient maps a prompt to the model's raw text response. It is the
// single place where non-determinism enters the pipeline.
type ModelClient interface {
	Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Interpreter converts free-text queries into validated SearchFilters
// using the model capability under a strict schema contract.
type Interpreter struct {
	client       ModelClient
	modelTimeout time.Duration
	logger       zerolog.Logger
}

// New creates an Interpreter. modelTimeout bounds each individual model
// call and must be shorter than the overall request budget.
func New(client ModelClient, modelTimeout time.Duration, logger zerolog.Logger) *Interpreter {
	return &Interpreter{
		client:       client,
		modelTimeout: modelTimeout,
		logger:       logger.With().Str("component", "interpreter").Logger(),
	}
}

// Interpret extracts a SearchFilter from the raw query. A first invalid
// extraction triggers exactly one retry with a clarifying follow-up; a
// second failure returns an InterpretationError. The returned trace is
// non-nil only when the query has debug enabled.
func (i *Interpreter) Interpret(ctx context.Context, q *models.RawQuery) (*models.SearchFilter, models.DebugTrace, error) {
	system := systemPrompt(q.Language, q.Currency)
	var trace models.DebugTrace

	filter, firstErr := i.attempt(ctx, q, system, q.SearchQuery, &trace)
	if firstErr == nil {
		return filter, trace, nil
	}

	i.logger.Warn().Err(firstErr).Msg("first extraction invalid, retrying with clarification")

	followUp := clarifyPrompt(q.SearchQuery, firstErr.Error())
	filter, retryErr := i.attempt(ctx, q, system, followUp, &trace)
	if retryErr != nil {
		return nil, trace, &models.InterpretationError{
			Msg: "model output did not converge to a valid filter",
			Err: retryErr,
		}
	}

	return filter, trace, nil
}

// attempt performs one model call and parses the response. The trace
// records the exact prompt and raw response when debug is enabled.
func (i *Interpreter) attempt(ctx context.Context, q *models.RawQuery, system, user string, trace *models.DebugTrace) (*models.SearchFilter, error) {
	callCtx, cancel := context.WithTimeout(ctx, i.modelTimeout)
	defer cancel()

	start := time.Now()
	raw, err := i.client.Complete(callCtx, q.ModelName, system, user)
	elapsed := time.Since(start)

	if q.Debug {
		output := raw
		if err != nil {
			output = "error: " + err.Error()
		}
		*trace = append(*trace, models.TraceEntry{
			Stage:   "interpret",
			Elapsed: elapsed,
			Input:   system + "\n---\n" + user,
			Output:  output,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	i.logger.Debug().Dur("elapsed", elapsed).Int("response_bytes", len(raw)).Msg("model responded")

	return parseFilter(raw)
}

// parseFilter turns the raw model response into a validated SearchFilter.
// Markdown fences are stripped, unknown fields are dropped by the struct
// unmarshal, and a reversed price range is repaired before validation.
func parseFilter(raw string) (*models.SearchFilter, error) {
	cleaned := stripFences(raw)

	var filter models.SearchFilter
	if err := json.Unmarshal([]byte(cleaned), &filter); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	normalizeFilter(&filter)

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return &filter, nil
}

// normalizeFilter applies the documented repairs: whitespace trimming,
// reversed price ranges swapped back, and empty residual terms dropped.
// A lone price or rating bound is left exactly as extracted — the absent
// bound stays unconstrained, never zero-filled.
func normalizeFilter(f *models.SearchFilter) {
	f.Location = strings.TrimSpace(f.Location)

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		f.MinPrice, f.MaxPrice = f.MaxPrice, f.MinPrice
	}

	terms := f.ResidualTerms[:0]
	for _, term := range f.ResidualTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			terms = append(terms, term)
		}
	}
	f.ResidualTerms = terms
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag, that some models wrap around JSON output.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		// Drop a language tag like "json" on the fence line.
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
