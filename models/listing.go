package models

import "encoding/json"

// Price is an amount in a specific currency.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ListingCandidate holds one unprocessed result from the listings source.
// It is owned by the fetcher until handed to the ranker.
type ListingCandidate struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Price       Price           `json:"price"`
	Rating      *float64        `json:"rating,omitempty"`
	Bedrooms    *int            `json:"bedrooms,omitempty"`
	Description string          `json:"description,omitempty"`
	URL         string          `json:"url,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// Display holds the human-readable, language-localized fields of a result.
type Display struct {
	PricePerNight string `json:"price_per_night"`
	Bedrooms      string `json:"bedrooms,omitempty"`
	Rating        string `json:"rating,omitempty"`
}

// RankedResult is a ListingCandidate enriched with the price converted to
// the request currency, localized display strings and a relevance score.
type RankedResult struct {
	ListingCandidate
	ConvertedPrice Price   `json:"converted_price"`
	PriceKnown     bool    `json:"price_known"`
	Display        Display `json:"display"`
	Score          float64 `json:"score"`
}
