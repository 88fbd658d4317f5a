package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"travel-search/listings"
	"travel-search/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func testPageQuery() listings.PageQuery {
	return listings.PageQuery{
		Filter: &models.SearchFilter{
			Location:  "Barcelona",
			CheckIn:   "2026-09-01",
			CheckOut:  "2026-09-05",
			MinPrice:  floatPtr(100),
			MaxPrice:  floatPtr(300),
			MinRating: floatPtr(4.0),
			Bedrooms:  intPtr(2),
		},
		Currency:  "USD",
		Language:  "en-gb",
		PageIndex: 1,
		PageSize:  25,
	}
}

func TestFetchPageTranslatesFilter(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"hasMore":false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", zerolog.Nop())
	if _, err := client.FetchPage(context.Background(), testPageQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"search":           "Barcelona",
		"currency":         "USD",
		"language":         "en-gb",
		"maxItems":         "25",
		"offset":           "25",
		"checkIn":          "2026-09-01",
		"checkOut":         "2026-09-05",
		"minMaxPrice":      "100-300",
		"starsCountFilter": "4",
	}
	for key, value := range want {
		if got := gotQuery.Get(key); got != value {
			t.Errorf("param %s: got %q, want %q", key, got, value)
		}
	}

	// Bedrooms cannot be expressed natively; it must not leak into the query.
	if gotQuery.Has("bedrooms") {
		t.Error("bedrooms must not be sent to the provider")
	}
}

func TestFetchPageDecodesListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id":"h1","name":"Casa Mila Suites","location":"Barcelona","price":180,"currency":"EUR","rating":4.6,"bedrooms":2,"url":"https://booking.example/h1"},
				{"name":"No ID Inn","location":"Barcelona","price":90,"url":"https://booking.example/h2"},
				{"name":"Broken Hotel","location":"Barcelona","price":50}
			],
			"hasMore": true
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	page, err := client.FetchPage(context.Background(), testPageQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !page.HasMore {
		t.Error("hasMore: got false, want true")
	}
	// The listing with neither id nor url is dropped.
	if len(page.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(page.Candidates))
	}

	first := page.Candidates[0]
	if first.ID != "h1" || first.Title != "Casa Mila Suites" {
		t.Errorf("first candidate: got %q/%q", first.ID, first.Title)
	}
	if first.Price.Amount != 180 || first.Price.Currency != "EUR" {
		t.Errorf("first price: got %+v", first.Price)
	}
	if first.Rating == nil || *first.Rating != 4.6 {
		t.Errorf("first rating: got %v", first.Rating)
	}
	if len(first.Raw) == 0 {
		t.Error("raw payload must be carried through")
	}

	// Missing id falls back to URL, missing currency to the request currency.
	second := page.Candidates[1]
	if second.ID != "https://booking.example/h2" {
		t.Errorf("second id: got %q", second.ID)
	}
	if second.Price.Currency != "USD" {
		t.Errorf("second currency: got %q", second.Price.Currency)
	}
}

func TestFetchPageRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	_, err := client.FetchPage(context.Background(), testPageQuery())
	if !errors.Is(err, listings.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestFetchPageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	if _, err := client.FetchPage(context.Background(), testPageQuery()); err == nil {
		t.Error("expected error on 502")
	}
}

func TestFetchPageSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"items":[],"hasMore":false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok123", zerolog.Nop())
	if _, err := client.FetchPage(context.Background(), testPageQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("authorization: got %q", gotAuth)
	}
}
