package services

import (
	"fmt"
	"strings"

	"travel-search/models"
)

// PrintResults renders one search response on the console.
func PrintResults(result *SearchResult, rawQuery *models.RawQuery) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏨 TRAVEL SEARCH RESULTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("  Query    : %s\n", rawQuery.SearchQuery)
	fmt.Printf("  Currency : %s | Language: %s | Max: %d\n\n",
		rawQuery.Currency, rawQuery.Language, rawQuery.MaxResults)

	if len(result.Results) == 0 {
		fmt.Printf("  No matching listings found.\n")
	}

	for i, res := range result.Results {
		fmt.Printf("\033[1m  %d. %s\033[0m  \033[1;32m(score %.1f)\033[0m\n",
			i+1, truncate(res.Title, 48), res.Score)
		fmt.Printf("     %s\n", res.Location)
		fmt.Printf("     %s", res.Display.PricePerNight)
		if res.Display.Bedrooms != "" {
			fmt.Printf(" | %s", res.Display.Bedrooms)
		}
		if res.Display.Rating != "" {
			fmt.Printf(" | %s", res.Display.Rating)
		}
		fmt.Println()
		if res.URL != "" {
			fmt.Printf("     %s\n", res.URL)
		}
		fmt.Println()
	}

	if len(result.Trace) > 0 {
		fmt.Printf("\033[1;33m  Debug Trace\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for _, entry := range result.Trace {
			fmt.Printf("  [%s] %v\n", entry.Stage, entry.Elapsed)
			fmt.Printf("    in  : %s\n", truncate(entry.Input, 120))
			fmt.Printf("    out : %s\n", truncate(entry.Output, 120))
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
