package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"invoice-qc/constants"
	"invoice-qc/internal/entity"
)

// DecodeInvoice checks one raw batch member against the Invoice schema and
// decodes it. A schema failure means the caller violated the wire contract;
// the error carries the validator's detail for logging, while the result
// entry built from it stays an opaque code.
func (v *Validator) DecodeInvoice(raw json.RawMessage) (*entity.Invoice, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal invoice: %w", err)
	}
	if err := v.schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("invoice does not match schema: %w", err)
	}
	var inv entity.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	return &inv, nil
}

// ValidateJSONBatch decodes and validates a caller-submitted batch. Members
// that fail the shape check are surfaced as rejected results rather than
// silently skipped, so batch accounting holds: every submitted object maps to
// exactly one result.
func (v *Validator) ValidateJSONBatch(raws []json.RawMessage) *BatchReport {
	invoices := make([]*entity.Invoice, len(raws))
	results := make([]Result, len(raws))
	for i, raw := range raws {
		inv, err := v.DecodeInvoice(raw)
		if err != nil {
			v.logger.Warn("rejecting malformed batch member", "index", i, "error", err)
			results[i] = Result{
				InvoiceID: rawIdentifier(raw, i),
				Errors:    []string{constants.CodeSchemaViolation},
			}
			continue
		}
		invoices[i] = inv
		results[i] = v.Validate(inv)
	}
	v.MarkDuplicates(invoices, results)
	return &BatchReport{Results: results, Summary: v.Summarize(results)}
}

// rawIdentifier makes a best-effort ID for a rejected member so its result
// is still addressable in the report.
func rawIdentifier(raw json.RawMessage, index int) string {
	var probe struct {
		InvoiceID     string `json:"invoice_id"`
		InvoiceNumber string `json:"invoice_number"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil {
		if id := strings.TrimSpace(probe.InvoiceID); id != "" {
			return id
		}
		if num := strings.TrimSpace(probe.InvoiceNumber); num != "" {
			return num
		}
	}
	return fmt.Sprintf("rejected-%d", index)
}
