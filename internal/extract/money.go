package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"invoice-qc/constants"
)

var amountCleaner = strings.NewReplacer(",", "", "€", "", "$", "", "₹", "", " ", "", " ", "")

// parseAmount normalizes a monetary substring (currency symbols, thousands
// separators) and parses it. Returns nil for unparsable or negative values:
// totals are never legitimately signed on an invoice.
func parseAmount(s string) *float64 {
	cleaned := amountCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// extractAmount runs an ordered pattern list and parses the first capture
// that yields a usable amount.
func extractAmount(text string, patterns []*regexp.Regexp) *float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := parseAmount(m[1]); v != nil {
				return v
			}
		}
	}
	return nil
}

// extractCurrency resolves the document currency against the supported set.
// Anything else maps to absent; judging unsupported codes is the validation
// engine's job.
func extractCurrency(text string) *string {
	if m := currencyLabelPattern.FindStringSubmatch(text); m != nil {
		code := strings.ToUpper(m[1])
		if constants.IsSupportedCurrency(code) {
			return &code
		}
		return nil
	}
	if m := currencyCodePattern.FindStringSubmatch(text); m != nil {
		code := m[1]
		return &code
	}
	if sym := currencySymbolPattern.FindString(text); sym != "" {
		if c, ok := constants.CurrencyFromSymbol(sym); ok {
			code := string(c)
			return &code
		}
	}
	return nil
}
