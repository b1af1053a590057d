package validate

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"invoice-qc/constants"
	"invoice-qc/internal/entity"
)

// Result is the per-invoice verdict. Errors holds the full ordered list of
// violated-rule codes; each distinct rule contributes at most one entry and
// IsValid is true iff the list is empty.
type Result struct {
	InvoiceID string   `json:"invoice_id"`
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
}

// Summary aggregates a batch of results. ErrorCounts is keyed by error-code
// category, not the full code string.
type Summary struct {
	TotalInvoices   int            `json:"total_invoices"`
	ValidInvoices   int            `json:"valid_invoices"`
	InvalidInvoices int            `json:"invalid_invoices"`
	ErrorCounts     map[string]int `json:"error_counts"`
}

// BatchReport is the validation engine's batch output shape.
type BatchReport struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Validator evaluates invoices against the rule table. It is stateless
// between calls and safe for concurrent use; batch-relative duplicate
// detection is a separate pass over a materialized batch.
type Validator struct {
	logger *slog.Logger
	rules  []Rule
	schema *jsonschema.Schema
}

func NewValidator(logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileInvoiceSchema()
	if err != nil {
		return nil, err
	}
	return &Validator{logger: logger, rules: defaultRules(), schema: schema}, nil
}

// Validate runs every single-invoice rule; evaluation does not short-circuit
// on the first failure because the report must be exhaustive.
func (v *Validator) Validate(inv *entity.Invoice) Result {
	if inv == nil {
		return Result{
			InvoiceID: resolveID(nil),
			Errors:    []string{constants.CodeSchemaViolation},
		}
	}
	errs := make([]string, 0, 4)
	for _, rule := range v.rules {
		if rule.Violated(inv) {
			errs = append(errs, rule.Code)
		}
	}
	return Result{
		InvoiceID: resolveID(inv),
		IsValid:   len(errs) == 0,
		Errors:    errs,
	}
}

// duplicateKey identifies an invoice for batch-relative anomaly detection.
// Comparison is on exact strings; normalizing seller names risks
// false-positive duplicate flags.
type duplicateKey struct {
	number string
	seller string
	date   string
}

// MarkDuplicates amends each result whose invoice shares
// (invoice_number, seller_name, invoice_date) with another batch member.
// Invoices missing any key component never participate: an incomplete record
// already fails completeness rules and matching on absent values would flag
// unrelated documents. invoices[i] may be nil (rejected or unreadable input);
// those slots are skipped.
func (v *Validator) MarkDuplicates(invoices []*entity.Invoice, results []Result) {
	groups := make(map[duplicateKey][]int, len(invoices))
	for i, inv := range invoices {
		if inv == nil || inv.InvoiceNumber == nil || inv.SellerName == nil || inv.InvoiceDate == nil {
			continue
		}
		key := duplicateKey{
			number: *inv.InvoiceNumber,
			seller: *inv.SellerName,
			date:   inv.InvoiceDate.String(),
		}
		groups[key] = append(groups[key], i)
	}
	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		v.logger.Warn("duplicate invoices detected",
			"invoice_number", key.number, "seller", key.seller, "date", key.date, "count", len(members))
		for _, i := range members {
			results[i].Errors = append(results[i].Errors, constants.CodeDuplicateInvoice)
			results[i].IsValid = false
		}
	}
}

// Summarize derives the batch summary from a full set of results.
func (v *Validator) Summarize(results []Result) Summary {
	s := Summary{
		TotalInvoices: len(results),
		ErrorCounts:   make(map[string]int),
	}
	for _, r := range results {
		if r.IsValid {
			s.ValidInvoices++
		} else {
			s.InvalidInvoices++
		}
		for _, code := range r.Errors {
			s.ErrorCounts[constants.ErrorCategory(code)]++
		}
	}
	return s
}

// ValidateBatch runs single-invoice rules for every batch member, then the
// batch-scoped duplicate pass, then finalizes the summary. The duplicate pass
// requires the full batch to be materialized first; it is the only rule with
// cross-record coupling.
func (v *Validator) ValidateBatch(invoices []*entity.Invoice) *BatchReport {
	results := make([]Result, len(invoices))
	for i, inv := range invoices {
		results[i] = v.Validate(inv)
	}
	v.MarkDuplicates(invoices, results)
	return &BatchReport{Results: results, Summary: v.Summarize(results)}
}

// resolveID picks the reporting identifier: an explicit document ID, else the
// invoice number, else a synthesized one so every result stays addressable.
func resolveID(inv *entity.Invoice) string {
	if inv == nil {
		return "rejected-" + uuid.NewString()
	}
	if id := strings.TrimSpace(entity.StrOrEmpty(inv.InvoiceID)); id != "" {
		return id
	}
	if num := strings.TrimSpace(entity.StrOrEmpty(inv.InvoiceNumber)); num != "" {
		return num
	}
	return "unknown-" + uuid.NewString()
}
