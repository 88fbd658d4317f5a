package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// SearchFilter is the structured, validated representation of search
// intent derived from the free-text query. Absent optional fields mean
// "unconstrained", never zero. Produced exactly once per RawQuery and
// immutable afterwards.
type SearchFilter struct {
	Location      string   `json:"location"`
	CheckIn       string   `json:"check_in,omitempty"`
	CheckOut      string   `json:"check_out,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	MinPrice      *float64 `json:"min_price,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	MinRating     *float64 `json:"min_rating,omitempty"`
	ResidualTerms []string `json:"residual_terms,omitempty"`
}

// Validate checks every invariant the filter carries: required location,
// well-formed date range, non-negative bedrooms, ordered non-negative
// price range and a rating inside [0,5].
func (f *SearchFilter) Validate() error {
	if f.Location == "" {
		return fmt.Errorf("filter: location is required")
	}

	var checkIn, checkOut time.Time
	var err error
	if f.CheckIn != "" {
		if checkIn, err = time.Parse(dateLayout, f.CheckIn); err != nil {
			return fmt.Errorf("filter: invalid check_in %q: %w", f.CheckIn, err)
		}
	}
	if f.CheckOut != "" {
		if checkOut, err = time.Parse(dateLayout, f.CheckOut); err != nil {
			return fmt.Errorf("filter: invalid check_out %q: %w", f.CheckOut, err)
		}
	}
	if f.CheckIn != "" && f.CheckOut != "" && checkOut.Before(checkIn) {
		return fmt.Errorf("filter: check_out %s before check_in %s", f.CheckOut, f.CheckIn)
	}

	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return fmt.Errorf("filter: bedrooms must be non-negative, got %d", *f.Bedrooms)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("filter: min_price must be non-negative, got %.2f", *f.MinPrice)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("filter: max_price must be non-negative, got %.2f", *f.MaxPrice)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("filter: min_price %.2f exceeds max_price %.2f", *f.MinPrice, *f.MaxPrice)
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return fmt.Errorf("filter: min_rating %.2f out of range [0,5]", *f.MinRating)
	}
	return nil
}

// HasPriceRange reports whether the user explicitly constrained price.
func (f *SearchFilter) HasPriceRange() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// PriceInRange reports whether a converted price satisfies the filter.
func (f *SearchFilter) PriceInRange(price float64) bool {
	if f.MinPrice != nil && price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && price > *f.MaxPrice {
		return false
	}
	return true
}
