package constants

import "strings"

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	INR Currency = "INR"
)

var allCurrencies = []Currency{EUR, USD, INR}

// SupportedCurrencies returns the supported set as plain strings.
func SupportedCurrencies() []string {
	out := make([]string, 0, len(allCurrencies))
	for _, c := range allCurrencies {
		out = append(out, string(c))
	}
	return out
}

// IsSupportedCurrency reports whether code (case-insensitive) is in the supported set.
func IsSupportedCurrency(code string) bool {
	u := strings.ToUpper(strings.TrimSpace(code))
	for _, c := range allCurrencies {
		if string(c) == u {
			return true
		}
	}
	return false
}

// CurrencyFromSymbol maps a currency symbol to its code; ok is false for
// anything outside the supported set.
func CurrencyFromSymbol(sym string) (Currency, bool) {
	switch sym {
	case "€":
		return EUR, true
	case "$":
		return USD, true
	case "₹":
		return INR, true
	}
	return "", false
}
