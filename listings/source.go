package listings

import (
	"context"
	"errors"

	"travel-search/models"
)

// ErrRateLimited is returned by a Source when the listings provider
// rejects a page request for rate-limiting reasons. The fetcher backs
// off before the next retry attempt.
var ErrRateLimited = errors.New("listings source rate limited")

// PageQuery describes one page request against the listings source.
// The source translates the filter into its native query parameters.
type PageQuery struct {
	Filter    *models.SearchFilter
	Currency  string
	Language  string
	PageIndex int
	PageSize  int
}

// Page is one page of raw listings plus a more-pages marker.
type Page struct {
	Candidates []models.ListingCandidate
	HasMore    bool
}

// Source is the queryable listings provider. Implementations must be
// safe for concurrent page requests.
type Source interface {
	FetchPage(ctx context.Context, query PageQuery) (*Page, error)
}
