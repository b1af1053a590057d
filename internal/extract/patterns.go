package extract

import (
	"regexp"
	"strings"

	"invoice-qc/constants"
)

// dateToken matches the written date forms the permissive parser understands:
// numeric with /, - or . separators, and month-name forms in either order.
const dateToken = `(\d{1,4}[./\-]\d{1,2}[./\-]\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9},?\s+\d{2,4}|[A-Za-z]{3,9}\s+\d{1,2},?\s+\d{2,4})`

// Pattern lists are ordered: the first match wins and no further templates are
// tried, so specific label-anchored templates must precede generic ones.

var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)invoice\s*(?:no\b|number\b|num\b)\.?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`),
	regexp.MustCompile(`(?i)invoice\s*#\s*:?\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`),
	regexp.MustCompile(`(?i)inv\s*(?:no\b|number\b)?\.?\s*[:#]\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`),
	regexp.MustCompile(`\b(INV-[A-Za-z0-9\-/]+)\b`),
	regexp.MustCompile(`(?i)\binvoice\s*:\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`),
	regexp.MustCompile(`#\s*([A-Za-z0-9][A-Za-z0-9\-/]*\d[A-Za-z0-9\-/]*)`),
}

var invoiceDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)invoice\s*date\s*[:\-]?\s*` + dateToken),
	regexp.MustCompile(`(?i)(?:date\s*of\s*issue|issue\s*date)\s*[:\-]?\s*` + dateToken),
	regexp.MustCompile(`(?im)^\s*date\s*[:\-]?\s*` + dateToken),
}

var dueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:due\s*date|payment\s*due|due\s*by)\s*[:\-]?\s*` + dateToken),
	regexp.MustCompile(`(?i)\bdue\s*[:\-]?\s*` + dateToken),
}

var sellerNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*(?:from|seller|vendor|supplier|sold\s*by|bill\s*from)\s*[:\-]\s*(\S[^\n]*)`),
	regexp.MustCompile(`(?m)^([A-Z][A-Za-z0-9&.,' \-]+(?:Inc|LLC|Ltd|GmbH|Corp|Company|Co)\.?)\s*$`),
}

var buyerNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*(?:bill\s*to|billed\s*to|buyer|customer|client)\s*[:\-]\s*(\S[^\n]*)`),
	regexp.MustCompile(`(?im)^\s*to\s*[:\-]\s*(\S[^\n]*)`),
}

var sellerAddressLabels = regexp.MustCompile(`(?i)^\s*(?:seller\s*address|from\s*address|address)\s*[:\-]\s*(.*)$`)
var buyerAddressLabels = regexp.MustCompile(`(?i)^\s*(?:buyer\s*address|bill\s*to\s*address|billing\s*address)\s*[:\-]\s*(.*)$`)

// streetLine catches a bare street-address line when no label is present.
var streetLine = regexp.MustCompile(`(?im)^\s*(\d+\s+[A-Za-z][A-Za-z .]*(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Drive|Dr|Boulevard|Blvd)\b[^\n]*)`)

var sellerTaxIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)seller\s*(?:tax\s*id|vat\s*(?:id|no|number)|gstin)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9\-]*)`),
	regexp.MustCompile(`(?i)\b(?:tax\s*id|vat\s*(?:id|no|number|registration\s*no)|gstin|ein|tin)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9\-]*)`),
}

var buyerTaxIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)buyer\s*(?:tax\s*id|vat\s*(?:id|no|number)|gstin)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9\-]*)`),
}

// genericTaxID is reused for positional assignment: when no role-prefixed
// label exists, the first occurrence is treated as the seller's, the second
// as the buyer's.
var genericTaxID = regexp.MustCompile(`(?i)\b(?:tax\s*id|vat\s*(?:id|no|number|registration\s*no)|gstin|ein|tin)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9\-]*)`)

var currencyLabelPattern = regexp.MustCompile(`(?i)\bcurrency\s*[:\-]?\s*([A-Za-z]{3})\b`)
var currencyCodePattern = regexp.MustCompile(`\b(` + strings.Join(constants.SupportedCurrencies(), "|") + `)\b`)
var currencySymbolPattern = regexp.MustCompile(`[€$₹]`)

// amountToken allows an optional currency symbol, thousands separators and a
// decimal part. Negative amounts are rejected later: totals are never signed.
const amountToken = `([€$₹]?\s*-?[\d,]+(?:\.\d+)?)`

var netTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:sub\s*total|net\s*total|total\s*before\s*tax|net\s*amount)\s*[:\-]?\s*` + amountToken),
}

var taxAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:tax\s*amount|vat\s*amount|sales\s*tax|tax\s*total)\s*[:\-]?\s*` + amountToken),
	regexp.MustCompile(`(?i)\b(?:tax|vat|gst)\s*(?:\(\s*\d+(?:\.\d+)?\s*%\s*\))?\s*[:\-]?\s*` + amountToken),
}

var grossTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:grand\s*total|gross\s*total|total\s*due|amount\s*due|balance\s*due)\s*[:\-]?\s*` + amountToken),
	regexp.MustCompile(`(?im)^\s*total\s*[:\-]?\s*` + amountToken),
	regexp.MustCompile(`(?i)\btotal\s+` + amountToken),
}

// firstMatch runs an ordered pattern list and returns the first capture,
// trimmed. ok is false when no template matched.
func firstMatch(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}
