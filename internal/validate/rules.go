package validate

import (
	"strings"

	"github.com/shopspring/decimal"

	"invoice-qc/constants"
	"invoice-qc/internal/entity"
)

// Rule is one independent validation rule: a name for reporting, the error
// code it contributes, and a predicate that reports a violation. The engine
// is just a loop over this table; adding a rule never touches control flow.
type Rule struct {
	Name     string
	Code     string
	Violated func(inv *entity.Invoice) bool
}

// Calendar window for the date sanity check. Anything outside is treated as
// extraction noise rather than a real billing date.
const (
	minSaneYear = 1970
	maxSaneYear = 2100
)

var tolerance = decimal.RequireFromString("0.01")

// defaultRules returns the full rule table in evaluation order:
// completeness, then format, then single-invoice business rules. Evaluation
// never short-circuits; the report must be exhaustive. The batch-scoped
// duplicate rule lives in MarkDuplicates, not here, to keep these predicates
// pure functions of a single invoice.
func defaultRules() []Rule {
	return []Rule{
		{
			Name: "invoice_number_present",
			Code: constants.CodeMissingInvoiceNumber,
			Violated: func(inv *entity.Invoice) bool {
				return strings.TrimSpace(entity.StrOrEmpty(inv.InvoiceNumber)) == ""
			},
		},
		{
			Name: "invoice_date_present",
			Code: constants.CodeMissingInvoiceDate,
			Violated: func(inv *entity.Invoice) bool {
				return inv.InvoiceDate == nil
			},
		},
		{
			Name: "seller_name_present",
			Code: constants.CodeMissingSellerName,
			Violated: func(inv *entity.Invoice) bool {
				return strings.TrimSpace(entity.StrOrEmpty(inv.SellerName)) == ""
			},
		},
		{
			Name: "buyer_name_present",
			Code: constants.CodeMissingBuyerName,
			Violated: func(inv *entity.Invoice) bool {
				return strings.TrimSpace(entity.StrOrEmpty(inv.BuyerName)) == ""
			},
		},
		{
			Name: "currency_supported",
			Code: constants.CodeInvalidCurrency,
			Violated: func(inv *entity.Invoice) bool {
				if inv.Currency == nil {
					return true
				}
				return !constants.IsSupportedCurrency(*inv.Currency)
			},
		},
		{
			Name: "totals_non_negative",
			Code: constants.CodeNegativeTotal,
			Violated: func(inv *entity.Invoice) bool {
				for _, p := range []*float64{inv.NetTotal, inv.TaxAmount, inv.GrossTotal} {
					if p != nil && *p < 0 {
						return true
					}
				}
				return false
			},
		},
		{
			Name: "dates_in_sane_range",
			Code: constants.CodeInvalidDate,
			Violated: func(inv *entity.Invoice) bool {
				return dateAbsurd(inv.InvoiceDate) || dateAbsurd(inv.DueDate)
			},
		},
		{
			Name: "line_items_sum_to_net",
			Code: constants.CodeTotalsMismatch,
			Violated: func(inv *entity.Invoice) bool {
				if len(inv.LineItems) == 0 {
					return false
				}
				sum := decimal.Zero
				for _, item := range inv.LineItems {
					sum = sum.Add(decimal.NewFromFloat(item.LineTotal))
				}
				net := decimal.NewFromFloat(entity.FloatOrZero(inv.NetTotal))
				return sum.Sub(net).Abs().Cmp(tolerance) > 0
			},
		},
		{
			Name: "net_plus_tax_is_gross",
			Code: constants.CodeGrossMismatch,
			Violated: func(inv *entity.Invoice) bool {
				net := decimal.NewFromFloat(entity.FloatOrZero(inv.NetTotal))
				tax := decimal.NewFromFloat(entity.FloatOrZero(inv.TaxAmount))
				gross := decimal.NewFromFloat(entity.FloatOrZero(inv.GrossTotal))
				return net.Add(tax).Sub(gross).Abs().Cmp(tolerance) > 0
			},
		},
		{
			Name: "due_date_not_before_invoice_date",
			Code: constants.CodeDueBeforeInvoiceDate,
			Violated: func(inv *entity.Invoice) bool {
				if inv.DueDate == nil || inv.InvoiceDate == nil {
					return false
				}
				return inv.DueDate.Before(*inv.InvoiceDate)
			},
		},
	}
}

func dateAbsurd(d *entity.Date) bool {
	if d == nil {
		return false
	}
	y := d.Year()
	return y < minSaneYear || y > maxSaneYear
}
