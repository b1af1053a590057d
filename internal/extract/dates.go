package extract

import (
	"regexp"
	"strings"
	"time"

	"invoice-qc/internal/entity"
)

// dateLayouts is tried in order. Day-first layouts precede month-first ones
// so that ambiguous numeric dates ("03/04/2024") resolve day-first; a
// month-first layout still catches unambiguous cases like "12/25/2024" where
// the day-first reading fails outright. Numeric components are non-padded so
// each layout accepts both "3/4/2024" and "03/04/2024".
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"1/2/2006",
	"1-2-2006",
	"2/1/06",
	"1/2/06",
	"2 January 2006",
	"2 Jan 2006",
	"2 January, 2006",
	"2 Jan, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

var dateSpaces = regexp.MustCompile(`\s+`)

// parseFlexibleDate interprets one of the common written date forms. Parse
// failure yields nil, never an error: unresolvable dates stay absent.
func parseFlexibleDate(s string) *entity.Date {
	cleaned := dateSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	if cleaned == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, cleaned, time.UTC)
		if err != nil {
			continue
		}
		d := entity.DateOf(t)
		return &d
	}
	return nil
}

// extractDate locates a label-anchored date substring and parses it.
func extractDate(text string, patterns []*regexp.Regexp) *entity.Date {
	if raw, ok := firstMatch(text, patterns); ok {
		return parseFlexibleDate(raw)
	}
	return nil
}
