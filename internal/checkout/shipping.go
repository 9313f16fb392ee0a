package checkout

import (
	"github.com/coronelbarros/storefront/pkg/format"
	"github.com/shopspring/decimal"
)

// DefaultShippingMinDigits is how many postal-code digits unlock the flat rate.
const DefaultShippingMinDigits = 8

// PlaceholderShippingEstimate stands in for a carrier quote: a complete
// postal code costs flatRate, anything shorter costs nothing. Only digits
// count, so "98735-000" and "98735000" price the same.
func PlaceholderShippingEstimate(postalCode string, flatRate decimal.Decimal, minDigits int) decimal.Decimal {
	if minDigits <= 0 {
		minDigits = DefaultShippingMinDigits
	}
	if len(format.Digits(postalCode)) >= minDigits {
		return flatRate
	}
	return decimal.Zero
}
