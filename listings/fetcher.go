package listings

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"travel-search/config"
	"travel-search/models"
	"travel-search/utils"
)

// Fetcher collects listing candidates from a Source, page by page, with
// bounded parallelism. Pages are merged strictly by page index so that
// fetch order — and everything downstream that depends on it — is
// reproducible.
type Fetcher struct {
	source          Source
	overFetchFactor int
	maxPages        int
	pageSize        int
	maxConcurrency  int
	rateLimitMs     int
	retry           *utils.RetryConfig
	logger          zerolog.Logger
}

// NewFetcher creates a ready-to-use Fetcher around the given source.
func NewFetcher(source Source, cfg *config.Config, logger zerolog.Logger) *Fetcher {
	log := logger.With().Str("component", "fetcher").Logger()
	return &Fetcher{
		source:          source,
		overFetchFactor: cfg.OverFetchFactor,
		maxPages:        cfg.MaxPages,
		pageSize:        cfg.PageSize,
		maxConcurrency:  cfg.MaxConcurrency,
		rateLimitMs:     cfg.RateLimitMs,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      log,
		},
		logger: log,
	}
}

type pageResult struct {
	page *Page
	err  error
}

// Fetch collects candidates until limitHint times the over-fetch factor
// is reached, the source runs out of pages, or the page ceiling is hit.
//
// A page that keeps failing after retries ends the fetch: if nothing was
// committed yet the whole fetch fails with FetchError, otherwise the
// partial set is returned. Context cancellation (the request budget
// firing) abandons in-flight pages and returns what was committed.
func (f *Fetcher) Fetch(ctx context.Context, filter *models.SearchFilter, rawQuery *models.RawQuery, limitHint int) ([]models.ListingCandidate, error) {
	target := limitHint * f.overFetchFactor

	f.logger.Info().
		Str("location", filter.Location).
		Int("target", target).
		Int("max_pages", f.maxPages).
		Msg("starting fetch")

	var collected []models.ListingCandidate
	nextPage := 0

	for nextPage < f.maxPages && len(collected) < target {
		if ctx.Err() != nil {
			f.logger.Warn().Int("committed", len(collected)).Msg("request budget exhausted, abandoning fetch")
			return collected, nil
		}

		wave := f.maxConcurrency
		if remaining := f.maxPages - nextPage; remaining < wave {
			wave = remaining
		}

		results := make([]pageResult, wave)
		pool := utils.NewWorkerPool(f.maxConcurrency, f.rateLimitMs)
		for i := 0; i < wave; i++ {
			i := i
			pageIndex := nextPage + i
			pool.Submit(func() {
				results[i] = f.fetchOnePage(ctx, filter, rawQuery, pageIndex)
			})
		}
		pool.Wait()

		done := false
		for i := 0; i < wave; i++ {
			res := results[i]
			if res.err != nil {
				if ctx.Err() != nil {
					// Budget fired mid-wave: partial page results of the
					// failed attempt are discarded, committed ones kept.
					f.logger.Warn().Int("committed", len(collected)).Msg("request budget exhausted mid-wave")
					return collected, nil
				}
				if len(collected) == 0 {
					return nil, &models.FetchError{
						Msg: "listings source unreachable with zero candidates collected",
						Err: res.err,
					}
				}
				f.logger.Warn().Err(res.err).Int("page", nextPage+i).
					Int("committed", len(collected)).
					Msg("page failed after retries, returning partial set")
				return collected, nil
			}

			collected = append(collected, res.page.Candidates...)
			if !res.page.HasMore || len(res.page.Candidates) == 0 {
				done = true
				break
			}
			if len(collected) >= target {
				done = true
				break
			}
		}
		if done {
			break
		}
		nextPage += wave
	}

	f.logger.Info().Int("candidates", len(collected)).Msg("fetch complete")
	return collected, nil
}

func (f *Fetcher) fetchOnePage(ctx context.Context, filter *models.SearchFilter, rawQuery *models.RawQuery, pageIndex int) pageResult {
	query := PageQuery{
		Filter:    filter,
		Currency:  rawQuery.Currency,
		Language:  rawQuery.Language,
		PageIndex: pageIndex,
		PageSize:  f.pageSize,
	}

	var page *Page
	err := f.retry.Do(ctx, "fetch-page", func() error {
		var fetchErr error
		page, fetchErr = f.source.FetchPage(ctx, query)
		return fetchErr
	})
	if err != nil {
		return pageResult{err: err}
	}

	f.logger.Debug().Int("page", pageIndex).Int("candidates", len(page.Candidates)).
		Bool("has_more", page.HasMore).Msg("page fetched")
	return pageResult{page: page}
}
