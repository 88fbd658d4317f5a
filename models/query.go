package models

import "fmt"

// Boundary defaults applied by RawQuery.Validate.
const (
	DefaultCurrency   = "USD"
	DefaultLanguage   = "en-gb"
	DefaultModel      = "gpt-4o-mini"
	DefaultMaxResults = 10
	MaxResultsCeiling = 50
)

// SupportedCurrencies is the fixed set of currencies accepted at the boundary.
var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// SupportedLanguages is the fixed set of result languages.
var SupportedLanguages = map[string]bool{
	"en-gb": true,
	"es":    true,
	"fr":    true,
	"de":    true,
}

// SupportedModels is the fixed set of model selectors.
var SupportedModels = map[string]bool{
	"gpt-4o":      true,
	"gpt-4o-mini": true,
}

// RawQuery is the validated user input for one search request.
// It is created once per request and never mutated afterwards.
type RawQuery struct {
	SearchQuery string
	Currency    string
	Language    string
	MaxResults  int
	ModelName   string
	Debug       bool
}

// Validate applies boundary defaults to empty fields and rejects
// values outside the documented enumerations and ranges.
func (q *RawQuery) Validate() error {
	if q.SearchQuery == "" {
		return fmt.Errorf("rawquery: searchQuery must not be empty")
	}
	if q.Currency == "" {
		q.Currency = DefaultCurrency
	}
	if !SupportedCurrencies[q.Currency] {
		return fmt.Errorf("rawquery: unsupported currency %q", q.Currency)
	}
	if q.Language == "" {
		q.Language = DefaultLanguage
	}
	if !SupportedLanguages[q.Language] {
		return fmt.Errorf("rawquery: unsupported language %q", q.Language)
	}
	if q.MaxResults == 0 {
		q.MaxResults = DefaultMaxResults
	}
	if q.MaxResults < 1 || q.MaxResults > MaxResultsCeiling {
		return fmt.Errorf("rawquery: maxResults %d out of range [1,%d]", q.MaxResults, MaxResultsCeiling)
	}
	if q.ModelName == "" {
		q.ModelName = DefaultModel
	}
	if !SupportedModels[q.ModelName] {
		return fmt.Errorf("rawquery: unsupported model %q", q.ModelName)
	}
	return nil
}
