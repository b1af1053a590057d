package constants

import "strings"

// Error code categories. A full error code is "<category>: <detail>";
// callers treat codes as opaque identifiers, so these exact strings are stable.
const (
	CategoryMissingField     = "missing_field"
	CategoryInvalidFormat    = "invalid_format"
	CategoryBusinessRule     = "business_rule_failed"
	CategoryAnomaly          = "anomaly"
	CategorySchemaError      = "schema_error"
	CategoryExtractionFailed = "extraction_failed"
)

// Full error codes emitted by the validation engine.
const (
	CodeMissingInvoiceNumber = "missing_field: invoice_number"
	CodeMissingInvoiceDate   = "missing_field: invoice_date"
	CodeMissingSellerName    = "missing_field: seller_name"
	CodeMissingBuyerName     = "missing_field: buyer_name"

	CodeInvalidCurrency = "invalid_format: currency"
	CodeNegativeTotal   = "invalid_format: negative_total"
	CodeInvalidDate     = "invalid_format: date"

	CodeTotalsMismatch       = "business_rule_failed: totals_mismatch"
	CodeGrossMismatch        = "business_rule_failed: gross_mismatch"
	CodeDueBeforeInvoiceDate = "business_rule_failed: due_date_before_invoice_date"

	CodeDuplicateInvoice = "anomaly: duplicate_invoice"

	CodeSchemaViolation  = "schema_error: invoice_shape"
	CodeUnreadableSource = "extraction_failed: unreadable_document"
)

// ErrorCategory returns the category prefix of a full error code.
// Batch summaries aggregate on the category, not the full code.
func ErrorCategory(code string) string {
	if i := strings.Index(code, ":"); i >= 0 {
		return strings.TrimSpace(code[:i])
	}
	return code
}
