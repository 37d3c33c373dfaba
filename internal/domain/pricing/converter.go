package pricing

import "math"

// BaseCurrency is the reference currency all listing prices are stored in.
const BaseCurrency = "IDR"

// ExchangeRates maps a currency code to its static multiplier relative to the
// base currency. The table is a fixture, not a live feed.
var ExchangeRates = map[string]float64{
	"IDR": 1,
	"USD": 0.000065,
	"MYR": 0.00029,
	"SGD": 0.000084,
	"CAD": 0.000088,
}

// Convert maps a base-currency amount to the target display currency, rounded
// to the nearest whole unit. Unknown currency codes fall back to a multiplier
// of one.
func Convert(amountIDR int64, currency string) int64 {
	rate, ok := ExchangeRates[currency]
	if !ok {
		rate = 1
	}
	return int64(math.Round(float64(amountIDR) * rate))
}
