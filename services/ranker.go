package services

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"travel-search/currency"
	"travel-search/models"
	"travel-search/utils"
)

// Relevance scoring weights. The score is a monotonic combination:
// a location base (every candidate the source returned matched the
// location), up to priceWeight for price proximity to the requested
// range's midpoint (or its single bound), up to ratingWeight scaling
// linearly with the rating, and up to residualWeight scaling with the
// fraction of residual terms matched.
const (
	baseScore      = 50.0
	priceWeight    = 20.0
	ratingWeight   = 15.0
	residualWeight = 15.0
)

// Ranker deduplicates, filters, converts, localizes, scores and sorts
// fetched candidates. Rank is pure apart from rate-table lookups and
// never fails.
type Ranker struct {
	rates  currency.RateTable
	logger zerolog.Logger
}

// NewRanker creates a Ranker using the supplied conversion-rate table.
func NewRanker(rates currency.RateTable, logger zerolog.Logger) *Ranker {
	return &Ranker{
		rates:  rates,
		logger: logger.With().Str("component", "ranker").Logger(),
	}
}

// Rank produces the final result list: deduplicated by identifier (first
// occurrence in fetch order wins), hard-filtered, converted to the
// request currency, localized, scored and deterministically sorted, then
// truncated to the request's maximum.
func (r *Ranker) Rank(candidates []models.ListingCandidate, filter *models.SearchFilter, rawQuery *models.RawQuery) []models.RankedResult {
	seen := utils.NewIDSet()
	results := make([]models.RankedResult, 0, len(candidates))

	dropped := 0
	for _, c := range candidates {
		if !seen.Add(c.ID) {
			continue
		}

		result, keep := r.evaluate(c, filter, rawQuery)
		if !keep {
			dropped++
			continue
		}
		results = append(results, result)
	}

	sortResults(results)

	if len(results) > rawQuery.MaxResults {
		results = results[:rawQuery.MaxResults]
	}

	r.logger.Info().
		Int("candidates", len(candidates)).
		Int("dropped", dropped).
		Int("results", len(results)).
		Msg("ranking complete")
	return results
}

// evaluate applies the hard post-filters and computes the score for one
// candidate. Returns keep=false when a hard filter is violated.
func (r *Ranker) evaluate(c models.ListingCandidate, filter *models.SearchFilter, rawQuery *models.RawQuery) (models.RankedResult, bool) {
	result := models.RankedResult{ListingCandidate: c}

	// Currency conversion. A missing rate only disqualifies the
	// candidate when a price range was explicitly requested — the
	// constraint cannot be verified then.
	rate, rateOK := r.rates.Rate(c.Price.Currency, rawQuery.Currency)
	if rateOK {
		result.PriceKnown = true
		result.ConvertedPrice = models.Price{
			Amount:   c.Price.Amount * rate,
			Currency: rawQuery.Currency,
		}
	} else {
		result.ConvertedPrice = models.Price{Currency: rawQuery.Currency}
		if filter.HasPriceRange() {
			return result, false
		}
	}

	if result.PriceKnown && !filter.PriceInRange(result.ConvertedPrice.Amount) {
		return result, false
	}

	// Bedrooms are not expressible in the source query; enforce here.
	// An unknown bedroom count is retained (only an unverifiable price
	// constraint drops a candidate).
	if filter.Bedrooms != nil && c.Bedrooms != nil && *c.Bedrooms < *filter.Bedrooms {
		return result, false
	}

	if filter.MinRating != nil && c.Rating != nil && *c.Rating < *filter.MinRating {
		return result, false
	}

	// Residual free-text terms: a candidate matching none of them fails
	// the hard filter; the fraction matched feeds the score.
	matched := 0
	if len(filter.ResidualTerms) > 0 {
		text := strings.ToLower(c.Title + " " + c.Description)
		for _, term := range filter.ResidualTerms {
			if strings.Contains(text, term) {
				matched++
			}
		}
		if matched == 0 {
			return result, false
		}
	}

	result.Score = r.score(&result, filter, matched)
	localizeDisplay(&result, rawQuery.Language)
	return result, true
}

// score computes the documented weighted combination. Each factor is
// monotonic: higher rating, price closer to the range reference, and
// more residual matches all raise the score.
func (r *Ranker) score(result *models.RankedResult, filter *models.SearchFilter, residualMatches int) float64 {
	score := baseScore

	if result.PriceKnown && filter.HasPriceRange() {
		ref := priceReference(filter)
		if ref > 0 {
			distance := result.ConvertedPrice.Amount - ref
			if distance < 0 {
				distance = -distance
			}
			proximity := 1 - distance/ref
			if proximity > 0 {
				score += priceWeight * proximity
			}
		}
	}

	if result.Rating != nil {
		score += ratingWeight * (*result.Rating / 5)
	}

	if len(filter.ResidualTerms) > 0 {
		score += residualWeight * float64(residualMatches) / float64(len(filter.ResidualTerms))
	}

	return score
}

// priceReference is the point the price proximity factor measures
// against: the range midpoint when both bounds exist, otherwise the
// single bound.
func priceReference(filter *models.SearchFilter) float64 {
	switch {
	case filter.MinPrice != nil && filter.MaxPrice != nil:
		return (*filter.MinPrice + *filter.MaxPrice) / 2
	case filter.MinPrice != nil:
		return *filter.MinPrice
	case filter.MaxPrice != nil:
		return *filter.MaxPrice
	}
	return 0
}

// sortResults orders by score descending, ties by ascending converted
// price (unknown prices after known ones), then by identifier, so that
// re-ranking the same candidate set is byte-identical.
func sortResults(results []models.RankedResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PriceKnown != b.PriceKnown {
			return a.PriceKnown
		}
		if a.PriceKnown && a.ConvertedPrice.Amount != b.ConvertedPrice.Amount {
			return a.ConvertedPrice.Amount < b.ConvertedPrice.Amount
		}
		return a.ID < b.ID
	})
}
