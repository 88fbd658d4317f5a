package browser

import (
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"travel-search/listings"
	"travel-search/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestParseDisplayedPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"US$180", 180},
		{"€ 1,250", 1250},
		{"£99.50 per night", 99.50},
		{"", 0},
		{"Sold out", 0},
	}

	for _, tt := range tests {
		got := parseDisplayedPrice(tt.raw, "USD")
		if got.Amount != tt.want {
			t.Errorf("parseDisplayedPrice(%q) = %.2f; want %.2f", tt.raw, got.Amount, tt.want)
		}
		if got.Currency != "USD" {
			t.Errorf("parseDisplayedPrice(%q) currency = %q; want USD", tt.raw, got.Currency)
		}
	}
}

func TestParseDisplayedRating(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"Scored 8.6 8.6", 4.3, true},
		{"9", 4.5, true},
		{"", 0, false},
		{"New to Booking", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDisplayedRating(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseDisplayedRating(%q) = (%.2f, %v); want (%.2f, %v)",
				tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBuildURLTranslatesFilter(t *testing.T) {
	src := New("", zerolog.Nop())

	query := listings.PageQuery{
		Filter: &models.SearchFilter{
			Location:  "Barcelona",
			CheckIn:   "2026-09-01",
			CheckOut:  "2026-09-05",
			MinPrice:  floatPtr(100),
			MaxPrice:  floatPtr(300),
			MinRating: floatPtr(4.0),
		},
		Currency:  "USD",
		Language:  "en-gb",
		PageIndex: 2,
		PageSize:  25,
	}

	raw := src.buildURL(query)
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("buildURL produced unparseable URL: %v", err)
	}

	params := parsed.Query()
	if params.Get("ss") != "Barcelona" {
		t.Errorf("ss: got %q", params.Get("ss"))
	}
	if params.Get("offset") != "50" {
		t.Errorf("offset: got %q, want 50", params.Get("offset"))
	}
	if params.Get("checkin") != "2026-09-01" || params.Get("checkout") != "2026-09-05" {
		t.Errorf("dates: got %q / %q", params.Get("checkin"), params.Get("checkout"))
	}

	nflt := params.Get("nflt")
	if !strings.Contains(nflt, "price=USD-100-300-1") {
		t.Errorf("nflt missing price filter: %q", nflt)
	}
	if !strings.Contains(nflt, "review_score=80") {
		t.Errorf("nflt missing review score: %q", nflt)
	}
}
