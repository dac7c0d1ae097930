package pricing

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tripgate/internal/domain/models"
)

// Flat agency markup on flight fares. The backend re-validates the real
// fare at booking time; this rate only affects what is displayed.
const flightMarkupRate = 0.15

// DisplayPrice applies the markup and rounds to two decimals.
func DisplayPrice(original float64) float64 {
	return math.Round(original*(1+flightMarkupRate)*100) / 100
}

// DecorateOffers fills DisplayPrice on each offer in place.
func DecorateOffers(offers []models.Offer) {
	for i := range offers {
		offers[i].DisplayPrice = DisplayPrice(offers[i].Price)
	}
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with its currency symbol when the ISO code
// is known, falling back to "230.00 XYZ" otherwise.
func FormatAmount(amount float64, code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(strings.TrimSpace(code)))
	}
	return printer.Sprintf("%v", currency.NarrowSymbol(unit.Amount(amount)))
}
