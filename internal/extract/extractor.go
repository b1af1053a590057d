package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"invoice-qc/internal/entity"
)

// Extractor maps raw document text into a typed Invoice. It is stateless and
// safe for concurrent use. Extraction never fails outright: every field
// independently resolves to a typed value or stays nil, so one malformed
// document can never abort a batch run.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractText produces a best-effort Invoice from one document's text.
func (e *Extractor) ExtractText(text string) *entity.Invoice {
	inv := &entity.Invoice{
		InvoiceNumber: extractString(text, invoiceNumberPatterns),
		InvoiceDate:   extractDate(text, invoiceDatePatterns),
		DueDate:       extractDate(text, dueDatePatterns),
		SellerName:    extractString(text, sellerNamePatterns),
		BuyerName:     extractString(text, buyerNamePatterns),
		SellerAddress: extractAddress(text, sellerAddressLabels, true),
		BuyerAddress:  extractAddress(text, buyerAddressLabels, false),
		Currency:      extractCurrency(text),
		NetTotal:      extractAmount(text, netTotalPatterns),
		TaxAmount:     extractAmount(text, taxAmountPatterns),
		GrossTotal:    extractAmount(text, grossTotalPatterns),
		LineItems:     extractLineItems(text),
	}
	inv.SellerTaxID, inv.BuyerTaxID = extractTaxIDs(text)

	e.logger.Debug("extract.text",
		"bytes", len(text),
		"invoice_number", entity.StrOrEmpty(inv.InvoiceNumber),
		"line_items", len(inv.LineItems),
	)
	return inv
}

func extractString(text string, patterns []*regexp.Regexp) *string {
	if v, ok := firstMatch(text, patterns); ok {
		return &v
	}
	return nil
}

// extractTaxIDs assigns role-prefixed tax IDs first; otherwise occurrence
// order decides: the first generic match is the seller's, the second the
// buyer's. An address block never satisfies these label-anchored templates.
func extractTaxIDs(text string) (seller, buyer *string) {
	seller = extractString(text, sellerTaxIDPatterns)
	buyer = extractString(text, buyerTaxIDPatterns)
	if buyer != nil || seller == nil {
		return seller, buyer
	}
	matches := genericTaxID.FindAllStringSubmatch(text, 3)
	for _, m := range matches {
		id := strings.TrimSpace(m[1])
		if id != "" && id != *seller {
			buyer = &id
			break
		}
	}
	return seller, buyer
}

// extractAddress locates block-anchored free text between an address label
// and the next recognized label or blank line; continuation lines are joined
// with a single normalizing separator. When allowStreet is set, a bare
// street-looking line serves as a fallback anchor.
func extractAddress(text string, label *regexp.Regexp, allowStreet bool) *string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := label.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parts := []string{}
		if v := strings.TrimSpace(m[1]); v != "" {
			parts = append(parts, v)
		}
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || looksLikeLabel(next) {
				break
			}
			parts = append(parts, next)
		}
		if len(parts) > 0 {
			joined := strings.Join(parts, ", ")
			return &joined
		}
	}
	if allowStreet {
		if m := streetLine.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			return &v
		}
	}
	return nil
}

// knownLabel bounds free-text blocks: any recognized field label ends an
// address block.
var knownLabel = regexp.MustCompile(`(?i)^\s*(?:invoice|inv\b|date|due|from|seller|vendor|supplier|bill|billed|to\b|buyer|customer|client|currency|tax|vat|gstin|ein|tin|sub\s*total|subtotal|total|amount|balance|notes?|terms)`)

func looksLikeLabel(line string) bool {
	return knownLabel.MatchString(line)
}
