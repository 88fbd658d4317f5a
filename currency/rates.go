package currency

import (
	"strconv"
	"strings"
)

// RateTable answers conversion-rate lookups for a currency pair.
// Implementations are expected to be fresh-or-cached snapshots supplied
// by the caller; this package never sources rates itself.
type RateTable interface {
	// Rate returns the multiplier converting one unit of from into to,
	// or false if the pair is unavailable.
	Rate(from, to string) (float64, bool)
}

// defaultRates covers the supported request currencies so the tool works
// out of the box. Override via CURRENCY_RATES when accuracy matters.
var defaultRates = map[string]float64{
	"USD:EUR": 0.92,
	"USD:GBP": 0.79,
	"EUR:USD": 1.09,
	"EUR:GBP": 0.86,
	"GBP:USD": 1.27,
	"GBP:EUR": 1.16,
}

// StaticTable is an immutable in-memory rate table.
type StaticTable struct {
	rates map[string]float64
}

// NewStaticTable builds a table from explicit pair rates. Identity pairs
// need not be listed.
func NewStaticTable(rates map[string]float64) *StaticTable {
	copied := make(map[string]float64, len(rates))
	for pair, rate := range rates {
		copied[strings.ToUpper(pair)] = rate
	}
	return &StaticTable{rates: copied}
}

// NewDefaultTable returns a table with the built-in rates, overlaid with
// any pairs from spec, a comma-separated list of FROM:TO=RATE entries
// (e.g. "USD:EUR=0.93,GBP:USD=1.25"). Malformed entries are skipped.
func NewDefaultTable(spec string) *StaticTable {
	rates := make(map[string]float64, len(defaultRates))
	for pair, rate := range defaultRates {
		rates[pair] = rate
	}

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pair, rateStr, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(rateStr), 64)
		if err != nil || rate <= 0 {
			continue
		}
		rates[strings.ToUpper(strings.TrimSpace(pair))] = rate
	}

	return NewStaticTable(rates)
}

// Rate implements RateTable.
func (t *StaticTable) Rate(from, to string) (float64, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return 1, true
	}
	rate, ok := t.rates[from+":"+to]
	return rate, ok
}
