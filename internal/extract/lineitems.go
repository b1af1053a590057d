package extract

import (
	"regexp"
	"strings"

	"invoice-qc/internal/entity"
)

const maxLineItems = 50

// tableHeader marks the start of a tabular line-item region: a single line
// naming a description column, a quantity column, a price column and a total.
var tableHeader = regexp.MustCompile(`(?im)^.*\b(?:description|item|product|service)s?\b.*\b(?:qty|quantity)\b.*\b(?:unit\s*price|price|rate|unit)\b.*\b(?:total|amount)\b.*$`)

// tableFooter marks the end of the region: the first totals/label line below it.
var tableFooter = regexp.MustCompile(`(?i)^\s*(?:sub\s*total|subtotal|net\s*total|grand\s*total|total|tax|vat|gst|amount\s*due|balance\s*due|notes?|terms)\b`)

// itemRow captures description, quantity, unit price and line total from one
// row; itemRowShort captures rows carrying only a quantity and a total.
var (
	itemRow      = regexp.MustCompile(`^\s*(.*?\S)\s+(\d+(?:\.\d+)?)\s+([€$₹]?\s*[\d,]+(?:\.\d+)?)\s+([€$₹]?\s*[\d,]+(?:\.\d+)?)\s*$`)
	itemRowShort = regexp.MustCompile(`^\s*(.*?\S)\s+(\d+(?:\.\d+)?)\s+([€$₹]?\s*[\d,]+(?:\.\d+)?)\s*$`)
	hasLetter    = regexp.MustCompile(`[A-Za-z]`)
)

// extractLineItems detects the tabular region bounded by header and footer
// markers and parses each row independently. A row that fails to yield at
// least a description and one numeric field is dropped rather than included
// with zero-filled placeholders, so sum-based rules see no phantom rows.
func extractLineItems(text string) []entity.LineItem {
	loc := tableHeader.FindStringIndex(text)
	if loc == nil {
		return scanRows(strings.Split(text, "\n"), 10)
	}
	region := text[loc[1]:]
	var lines []string
	for _, line := range strings.Split(region, "\n") {
		if tableFooter.MatchString(line) {
			break
		}
		lines = append(lines, line)
	}
	return scanRows(lines, maxLineItems)
}

func scanRows(lines []string, limit int) []entity.LineItem {
	var items []entity.LineItem
	for _, line := range lines {
		if len(items) >= limit {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if item, ok := parseRow(line); ok {
			items = append(items, item)
		}
	}
	return items
}

// parseRow extracts one line item using label-free positional heuristics.
func parseRow(line string) (entity.LineItem, bool) {
	if m := itemRow.FindStringSubmatch(line); m != nil {
		desc := strings.TrimSpace(m[1])
		qty, unit, total := parseAmount(m[2]), parseAmount(m[3]), parseAmount(m[4])
		if !rowUsable(desc, qty, unit, total) {
			// Retrying the short form would only fold a numeric column
			// into the description, never rescue a real row.
			return entity.LineItem{}, false
		}
		return entity.LineItem{
			Description: desc,
			Quantity:    entity.FloatOrZero(qty),
			UnitPrice:   entity.FloatOrZero(unit),
			LineTotal:   entity.FloatOrZero(total),
		}, true
	}
	if m := itemRowShort.FindStringSubmatch(line); m != nil {
		desc := strings.TrimSpace(m[1])
		qty, total := parseAmount(m[2]), parseAmount(m[3])
		if rowUsable(desc, qty, total) {
			return entity.LineItem{
				Description: desc,
				Quantity:    entity.FloatOrZero(qty),
				LineTotal:   entity.FloatOrZero(total),
			}, true
		}
	}
	return entity.LineItem{}, false
}

func rowUsable(desc string, nums ...*float64) bool {
	if len(desc) < 3 || !hasLetter.MatchString(desc) {
		return false
	}
	for _, n := range nums {
		if n != nil {
			return true
		}
	}
	return false
}
