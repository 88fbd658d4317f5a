package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"travel-search/listings"
	"travel-search/models"
)

// Client queries a hosted Booking.com search API. The wire contract
// follows the voyager/booking-scraper actor: structured query
// parameters in, one page of raw listings plus a has-more marker out.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     zerolog.Logger
}

// NewClient creates a Client for the API at baseURL. token may be empty
// when the endpoint is unauthenticated.
func NewClient(baseURL, token string, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     logger.With().Str("component", "booking").Logger(),
	}
}

// apiListing is the provider's raw listing shape.
type apiListing struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Rating      *float64 `json:"rating"`
	Bedrooms    *int     `json:"bedrooms"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
}

type searchResponse struct {
	Items   []json.RawMessage `json:"items"`
	HasMore bool              `json:"hasMore"`
}

// FetchPage implements listings.Source.
func (c *Client) FetchPage(ctx context.Context, query listings.PageQuery) (*listings.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+c.encodeParams(query), nil)
	if err != nil {
		return nil, fmt.Errorf("booking: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, listings.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("booking: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("booking: decode response: %w", err)
	}

	page := &listings.Page{HasMore: body.HasMore}
	for _, raw := range body.Items {
		var item apiListing
		if err := json.Unmarshal(raw, &item); err != nil {
			c.logger.Warn().Err(err).Msg("skipping undecodable listing")
			continue
		}

		id := item.ID
		if id == "" {
			id = item.URL
		}
		if id == "" {
			c.logger.Warn().Str("title", item.Name).Msg("skipping listing without identifier")
			continue
		}

		currency := item.Currency
		if currency == "" {
			currency = query.Currency
		}

		page.Candidates = append(page.Candidates, models.ListingCandidate{
			ID:          id,
			Title:       item.Name,
			Location:    item.Location,
			Price:       models.Price{Amount: item.Price, Currency: currency},
			Rating:      item.Rating,
			Bedrooms:    item.Bedrooms,
			Description: item.Description,
			URL:         item.URL,
			Raw:         raw,
		})
	}

	c.logger.Debug().Int("page", query.PageIndex).Int("items", len(page.Candidates)).Msg("page decoded")
	return page, nil
}

// encodeParams translates the filter into the provider's native query
// parameters. Constraints the provider cannot express (bedrooms,
// residual terms) stay out and are enforced by the ranker.
func (c *Client) encodeParams(query listings.PageQuery) string {
	filter := query.Filter
	params := url.Values{}

	params.Set("search", filter.Location)
	params.Set("currency", strings.ToUpper(query.Currency))
	params.Set("language", strings.ToLower(query.Language))
	params.Set("maxItems", strconv.Itoa(query.PageSize))
	params.Set("offset", strconv.Itoa(query.PageIndex*query.PageSize))

	if filter.CheckIn != "" {
		params.Set("checkIn", filter.CheckIn)
	}
	if filter.CheckOut != "" {
		params.Set("checkOut", filter.CheckOut)
	}

	switch {
	case filter.MinPrice != nil && filter.MaxPrice != nil:
		params.Set("minMaxPrice", fmt.Sprintf("%d-%d", int(*filter.MinPrice), int(*filter.MaxPrice)))
	case filter.MinPrice != nil:
		params.Set("minPrice", strconv.Itoa(int(*filter.MinPrice)))
	case filter.MaxPrice != nil:
		params.Set("maxPrice", strconv.Itoa(int(*filter.MaxPrice)))
	}

	if filter.MinRating != nil {
		if stars := int(*filter.MinRating); stars >= 1 && stars <= 5 {
			params.Set("starsCountFilter", strconv.Itoa(stars))
		}
	}

	return params.Encode()
}
