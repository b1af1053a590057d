package entity

// LineItem is one itemized row of billed goods or services. Internal
// consistency (quantity * unit_price == line_total) is a validation concern,
// not a construction constraint, so inconsistent rows are representable.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// Invoice is the canonical structured record for one billing document.
// Optional fields are pointers so "never extracted" (nil) stays distinct from
// "extracted as empty"; they serialize as null. An Invoice is built once by
// the extraction engine or by deserialization and is read-only afterwards.
type Invoice struct {
	InvoiceID     *string    `json:"invoice_id,omitempty"`
	InvoiceNumber *string    `json:"invoice_number"`
	InvoiceDate   *Date      `json:"invoice_date"`
	DueDate       *Date      `json:"due_date"`
	SellerName    *string    `json:"seller_name"`
	SellerAddress *string    `json:"seller_address"`
	SellerTaxID   *string    `json:"seller_tax_id"`
	BuyerName     *string    `json:"buyer_name"`
	BuyerAddress  *string    `json:"buyer_address"`
	BuyerTaxID    *string    `json:"buyer_tax_id"`
	Currency      *string    `json:"currency"`
	NetTotal      *float64   `json:"net_total"`
	TaxAmount     *float64   `json:"tax_amount"`
	GrossTotal    *float64   `json:"gross_total"`
	LineItems     []LineItem `json:"line_items"`
}

// StrOrEmpty dereferences an optional string field.
func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// FloatOrZero dereferences an optional numeric field.
func FloatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
