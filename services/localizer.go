package services

import (
	"fmt"

	"travel-search/models"
)

// currencySymbols maps the supported request currencies to their symbol.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

type localeStrings struct {
	perNight         string // fmt: symbol, amount
	priceUnavailable string
	bedroomOne       string
	bedroomMany      string // fmt: count
	rating           string // fmt: value
}

var locales = map[string]localeStrings{
	"en-gb": {
		perNight:         "%s%.2f per night",
		priceUnavailable: "price unavailable",
		bedroomOne:       "1 bedroom",
		bedroomMany:      "%d bedrooms",
		rating:           "rated %.1f out of 5",
	},
	"es": {
		perNight:         "%s%.2f por noche",
		priceUnavailable: "precio no disponible",
		bedroomOne:       "1 habitación",
		bedroomMany:      "%d habitaciones",
		rating:           "valoración %.1f de 5",
	},
	"fr": {
		perNight:         "%s%.2f par nuit",
		priceUnavailable: "prix indisponible",
		bedroomOne:       "1 chambre",
		bedroomMany:      "%d chambres",
		rating:           "note %.1f sur 5",
	},
	"de": {
		perNight:         "%s%.2f pro Nacht",
		priceUnavailable: "Preis nicht verfügbar",
		bedroomOne:       "1 Schlafzimmer",
		bedroomMany:      "%d Schlafzimmer",
		rating:           "Bewertung %.1f von 5",
	},
}

// localizeDisplay fills the display strings of a result for the given
// language. Unknown languages fall back to en-gb.
func localizeDisplay(result *models.RankedResult, language string) {
	strs, ok := locales[language]
	if !ok {
		strs = locales["en-gb"]
	}

	if result.PriceKnown {
		symbol := currencySymbols[result.ConvertedPrice.Currency]
		if symbol == "" {
			symbol = result.ConvertedPrice.Currency + " "
		}
		result.Display.PricePerNight = fmt.Sprintf(strs.perNight, symbol, result.ConvertedPrice.Amount)
	} else {
		result.Display.PricePerNight = strs.priceUnavailable
	}

	if result.Bedrooms != nil {
		if *result.Bedrooms == 1 {
			result.Display.Bedrooms = strs.bedroomOne
		} else {
			result.Display.Bedrooms = fmt.Sprintf(strs.bedroomMany, *result.Bedrooms)
		}
	}

	if result.Rating != nil {
		result.Display.Rating = fmt.Sprintf(strs.rating, *result.Rating)
	}
}
