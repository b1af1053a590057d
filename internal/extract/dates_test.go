package extract

import (
	"testing"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // YYYY-MM-DD, "" means unparsable
	}{
		{"iso", "2024-01-15", "2024-01-15"},
		{"iso slashes", "2024/01/15", "2024-01-15"},
		{"day first slashes", "15/01/2024", "2024-01-15"},
		{"day first dashes", "15-01-2024", "2024-01-15"},
		{"day first dots", "15.01.2024", "2024-01-15"},
		{"day first two digit year", "15/01/24", "2024-01-15"},
		{"single digit day and month", "3/4/2024", "2024-04-03"},
		{"single digit day first", "5/1/2024", "2024-01-05"},
		{"single digit dashes", "7-3-2024", "2024-03-07"},
		{"single digit month first fallback", "1/15/2024", "2024-01-15"},
		{"loose iso", "2024-1-5", "2024-01-05"},
		{"ambiguous prefers day first", "03/04/2024", "2024-04-03"},
		{"month first when day first impossible", "01/15/2024", "2024-01-15"},
		{"day month-name year", "14 February 2024", "2024-02-14"},
		{"day short month year", "14 Feb 2024", "2024-02-14"},
		{"month-name day year", "February 14, 2024", "2024-02-14"},
		{"short month day year", "Feb 14, 2024", "2024-02-14"},
		{"extra whitespace", "  15/01/2024  ", "2024-01-15"},
		{"garbage", "not a date", ""},
		{"empty", "", ""},
		{"impossible day", "45/01/2024", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFlexibleDate(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("parseFlexibleDate(%q) = %s, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("parseFlexibleDate(%q) = nil, want %s", tt.input, tt.want)
			}
			if got.String() != tt.want {
				t.Errorf("parseFlexibleDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractDateLabelAnchoring(t *testing.T) {
	text := "Some header\nDue Date: 01/03/2024\nInvoice Date: 15/01/2024\n"

	if d := extractDate(text, invoiceDatePatterns); d == nil || d.String() != "2024-01-15" {
		t.Errorf("invoice date = %v, want 2024-01-15", d)
	}
	if d := extractDate(text, dueDatePatterns); d == nil || d.String() != "2024-03-01" {
		t.Errorf("due date = %v, want 2024-03-01", d)
	}
}

func TestExtractDateUnparsableYieldsAbsent(t *testing.T) {
	text := "Invoice Date: soonish\n"
	if d := extractDate(text, invoiceDatePatterns); d != nil {
		t.Errorf("expected nil date for unparsable value, got %v", d)
	}
}
