package browser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"travel-search/listings"
	"travel-search/models"
)

const searchResultsURL = "https://www.booking.com/searchresults.html"

// Source scrapes Booking.com search result pages with a headless
// browser. It implements listings.Source so the fetcher can drive it
// exactly like the hosted API. Intended for environments without an API
// token; one page request costs one full page load.
type Source struct {
	chromeBin string
	logger    zerolog.Logger
}

// New creates a browser-backed Source. chromeBin may be empty, in which
// case the binary is located on PATH and in the usual install locations.
func New(chromeBin string, logger zerolog.Logger) *Source {
	return &Source{
		chromeBin: chromeBin,
		logger:    logger.With().Str("component", "browser").Logger(),
	}
}

type cardData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Price    string `json:"price"`
	Rating   string `json:"rating"`
	URL      string `json:"url"`
}

type pageData struct {
	Cards   []cardData `json:"cards"`
	HasNext bool       `json:"hasNext"`
}

// FetchPage implements listings.Source.
func (s *Source) FetchPage(ctx context.Context, query listings.PageQuery) (*listings.Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := s.findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 90*time.Second)
	defer cancelTimeout()

	pageURL := s.buildURL(query)
	s.logger.Debug().Str("url", pageURL).Int("page", query.PageIndex).Msg("loading results page")

	var data pageData
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(5*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(extractScript, &data),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: page extract: %w", err)
	}

	page := &listings.Page{HasMore: data.HasNext}
	for _, card := range data.Cards {
		if card.URL == "" && card.ID == "" {
			continue
		}
		id := card.ID
		if id == "" {
			id = card.URL
		}

		candidate := models.ListingCandidate{
			ID:       id,
			Title:    card.Title,
			Location: card.Location,
			Price:    parseDisplayedPrice(card.Price, query.Currency),
			URL:      card.URL,
		}
		if rating, ok := parseDisplayedRating(card.Rating); ok {
			candidate.Rating = &rating
		}
		page.Candidates = append(page.Candidates, candidate)
	}

	s.logger.Debug().Int("page", query.PageIndex).Int("cards", len(page.Candidates)).Msg("page extracted")
	return page, nil
}

// buildURL translates the filter into Booking.com search URL parameters.
func (s *Source) buildURL(query listings.PageQuery) string {
	filter := query.Filter
	params := url.Values{}

	params.Set("ss", filter.Location)
	params.Set("selected_currency", strings.ToUpper(query.Currency))
	params.Set("lang", strings.ToLower(query.Language))
	params.Set("offset", strconv.Itoa(query.PageIndex*query.PageSize))

	if filter.CheckIn != "" {
		params.Set("checkin", filter.CheckIn)
	}
	if filter.CheckOut != "" {
		params.Set("checkout", filter.CheckOut)
	}

	var nflt []string
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		min, max := "min", "max"
		if filter.MinPrice != nil {
			min = strconv.Itoa(int(*filter.MinPrice))
		}
		if filter.MaxPrice != nil {
			max = strconv.Itoa(int(*filter.MaxPrice))
		}
		nflt = append(nflt, fmt.Sprintf("price=%s-%s-%s-1", strings.ToUpper(query.Currency), min, max))
	}
	if filter.MinRating != nil {
		// Booking review scores run 0-10; the filter's scale is 0-5.
		score := int(*filter.MinRating * 2 * 10)
		nflt = append(nflt, fmt.Sprintf("review_score=%d", score))
	}
	if len(nflt) > 0 {
		params.Set("nflt", strings.Join(nflt, ";"))
	}

	return searchResultsURL + "?" + params.Encode()
}

// extractScript pulls property cards and the next-page marker out of a
// loaded search results page.
const extractScript = `
(function() {
	var cards = [];
	var nodes = document.querySelectorAll('[data-testid="property-card"]');

	for (var i = 0; i < nodes.length; i++) {
		var card = nodes[i];

		var titleEl = card.querySelector('[data-testid="title"]');
		var linkEl = card.querySelector('a[data-testid="title-link"]') ||
		             card.querySelector('a[href*="/hotel/"]');
		var priceEl = card.querySelector('[data-testid="price-and-discounted-price"]') ||
		              card.querySelector('[data-testid="price"]');
		var locEl = card.querySelector('[data-testid="address"]');
		var ratingEl = card.querySelector('[data-testid="review-score"]');

		var href = linkEl ? linkEl.href : '';
		var id = '';
		if (href) {
			var match = href.match(/\/hotel\/[a-z]{2}\/([^.?]+)/);
			if (match) id = match[1];
		}

		cards.push({
			id: id,
			title: titleEl ? titleEl.innerText.trim() : '',
			location: locEl ? locEl.innerText.trim() : '',
			price: priceEl ? priceEl.innerText.trim() : '',
			rating: ratingEl ? ratingEl.innerText.trim() : '',
			url: href
		});
	}

	var next = document.querySelector('button[aria-label="Next page"]');
	var hasNext = !!(next && !next.disabled);

	return { cards: cards, hasNext: hasNext };
})()
`

var displayedPriceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// parseDisplayedPrice extracts the numeric amount from a displayed price
// like "US$180" or "€ 1,250". The page shows prices in the currency the
// URL requested, so the request currency is assumed.
func parseDisplayedPrice(raw, currency string) models.Price {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := displayedPriceRegexp.FindString(cleaned)
	if match == "" {
		return models.Price{Currency: currency}
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return models.Price{Currency: currency}
	}
	return models.Price{Amount: amount, Currency: strings.ToUpper(currency)}
}

var displayedRatingRegexp = regexp.MustCompile(`\b(\d{1,2}(?:\.\d)?)\b`)

// parseDisplayedRating converts a displayed review score ("Scored 8.6")
// from Booking's 0-10 scale to the 0-5 scale the pipeline uses.
func parseDisplayedRating(raw string) (float64, bool) {
	match := displayedRatingRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return 0, false
	}
	score, err := strconv.ParseFloat(match[1], 64)
	if err != nil || score < 0 || score > 10 {
		return 0, false
	}
	return score / 2, true
}

// findChromeBinary locates the Chrome/Chromium binary.
func (s *Source) findChromeBinary() string {
	if s.chromeBin != "" {
		return s.chromeBin
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
