package interpreter

import "fmt"

// languageNames maps supported language codes to the name used in the
// localization hint handed to the model.
var languageNames = map[string]string{
	"en-gb": "British English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
}

const filterSchema = `{
  "location": "string, required — the destination city or place name",
  "check_in": "string, optional — check-in date as YYYY-MM-DD",
  "check_out": "string, optional — check-out date as YYYY-MM-DD",
  "bedrooms": "integer, optional — number of bedrooms required, non-negative",
  "min_price": "number, optional — minimum price per night",
  "max_price": "number, optional — maximum price per night",
  "min_rating": "number, optional — minimum rating between 0 and 5",
  "residual_terms": "array of strings, optional — remaining intent not covered by the fields above (e.g. amenities, property style)"
}`

// systemPrompt instructs the model to emit exactly one JSON object that
// matches the SearchFilter schema.
func systemPrompt(language, currency string) string {
	name := languageNames[language]
	if name == "" {
		name = language
	}

	return fmt.Sprintf(`You are a travel search parameter extractor. Extract structured accommodation search parameters from the user's natural language query.

Respond with ONLY a JSON object matching this schema (no prose, no markdown fences):
%s

Guidelines:
- "location" must be a proper city or place name.
- Prices are per night in %s.
- If a parameter is not mentioned in the query, omit its field entirely. Never invent values and never fill zeros as placeholders.
- "rating above X" or "at least X stars" means min_rating = X.
- "from $X" or "$X and up" means min_price = X; "under $X" means max_price = X.
- Put any remaining constraints the schema cannot express into residual_terms, one short lowercase term each.
- The user's results will be shown in %s; keep location spelling appropriate for that language.`,
		filterSchema, currency, name)
}

// clarifyPrompt builds the single follow-up message used after an
// invalid first extraction.
func clarifyPrompt(query, reason string) string {
	return fmt.Sprintf(`Your previous answer could not be used: %s.

Extract the search parameters again from this query, and respond with ONLY the JSON object described earlier. The "location" field is required.

Query: %s`, reason, query)
}
