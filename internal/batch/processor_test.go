package batch_test

import (
	"context"
	"testing"

	"invoice-qc/constants"
	"invoice-qc/internal/batch"
	"invoice-qc/internal/docsrc"
	"invoice-qc/internal/extract"
	"invoice-qc/internal/validate"
)

const cleanInvoiceText = `Invoice Number: INV-1
Invoice Date: 2024-01-01
From: Acme
Bill To: Beta LLC
Currency: USD
Subtotal: 100.00
Tax: 10.00
Grand Total: 110.00
`

func newProcessor(t *testing.T, opts ...batch.Option) *batch.Processor {
	t.Helper()
	v, err := validate.NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return batch.NewProcessor(extract.NewExtractor(nil), v, nil, opts...)
}

func hasCode(errs []string, code string) bool {
	for _, e := range errs {
		if e == code {
			return true
		}
	}
	return false
}

func TestProcessEveryDocumentYieldsOneResult(t *testing.T) {
	p := newProcessor(t, batch.WithWorkers(2))
	docs := []docsrc.Document{
		{ID: "inv-a", Text: cleanInvoiceText},
		{ID: "inv-b", Text: cleanInvoiceText},
		{ID: "inv-c", Path: "/in/inv-c.pdf", Err: "pdftotext: exit status 1"},
	}

	rep, invoices := p.Process(context.Background(), docs)

	if len(rep.Results) != 3 || len(invoices) != 3 {
		t.Fatalf("got %d results / %d invoices, want 3 each", len(rep.Results), len(invoices))
	}
	if rep.Summary.TotalInvoices != 3 {
		t.Errorf("total_invoices = %d, want 3", rep.Summary.TotalInvoices)
	}

	// Results stay positionally aligned with the input and carry document IDs.
	for i, want := range []string{"inv-a", "inv-b", "inv-c"} {
		if rep.Results[i].InvoiceID != want {
			t.Errorf("results[%d].invoice_id = %q, want %q", i, rep.Results[i].InvoiceID, want)
		}
	}
}

func TestProcessUnreadableDocumentMarkedFailed(t *testing.T) {
	p := newProcessor(t)
	docs := []docsrc.Document{
		{ID: "broken", Path: "/in/broken.pdf", Err: "pdftotext: exit status 1"},
	}

	rep, invoices := p.Process(context.Background(), docs)

	if invoices[0] != nil {
		t.Errorf("invoices[0] = %+v, want nil for unreadable document", invoices[0])
	}
	res := rep.Results[0]
	if res.IsValid {
		t.Error("unreadable document reported valid")
	}
	if !hasCode(res.Errors, constants.CodeUnreadableSource) {
		t.Errorf("errors = %v, want %q", res.Errors, constants.CodeUnreadableSource)
	}
	if rep.Summary.ErrorCounts[constants.CategoryExtractionFailed] != 1 {
		t.Errorf("extraction_failed count = %d, want 1", rep.Summary.ErrorCounts[constants.CategoryExtractionFailed])
	}
}

func TestProcessEmptyTextMarkedFailed(t *testing.T) {
	p := newProcessor(t)
	docs := []docsrc.Document{
		{ID: "blank", Text: ""},
		{ID: "whitespace", Text: "  \n\t\n"},
	}

	rep, invoices := p.Process(context.Background(), docs)

	for i, res := range rep.Results {
		if invoices[i] != nil {
			t.Errorf("invoices[%d] = %+v, want nil for empty text", i, invoices[i])
		}
		if !hasCode(res.Errors, constants.CodeUnreadableSource) {
			t.Errorf("results[%d].errors = %v, want %q", i, res.Errors, constants.CodeUnreadableSource)
		}
		if hasCode(res.Errors, constants.CodeMissingInvoiceNumber) {
			t.Errorf("results[%d] treated empty text as zero fields found: %v", i, res.Errors)
		}
	}
	if rep.Summary.ErrorCounts[constants.CategoryExtractionFailed] != 2 {
		t.Errorf("extraction_failed count = %d, want 2", rep.Summary.ErrorCounts[constants.CategoryExtractionFailed])
	}
}

func TestProcessFlagsCrossDocumentDuplicates(t *testing.T) {
	p := newProcessor(t, batch.WithWorkers(3))
	docs := []docsrc.Document{
		{ID: "first", Text: cleanInvoiceText},
		{ID: "second", Text: cleanInvoiceText},
		{ID: "broken", Err: "read: permission denied"},
	}

	rep, invoices := p.Process(context.Background(), docs)

	for _, i := range []int{0, 1} {
		if !hasCode(rep.Results[i].Errors, constants.CodeDuplicateInvoice) {
			t.Errorf("results[%d].errors = %v, want duplicate flag", i, rep.Results[i].Errors)
		}
		if rep.Results[i].IsValid {
			t.Errorf("results[%d] still valid after duplicate flag", i)
		}
	}
	if hasCode(rep.Results[2].Errors, constants.CodeDuplicateInvoice) {
		t.Errorf("failed slot flagged duplicate: %v", rep.Results[2].Errors)
	}
	if invoices[0] == nil || invoices[0].InvoiceID == nil || *invoices[0].InvoiceID != "first" {
		t.Errorf("invoices[0] missing document ID: %+v", invoices[0])
	}
}

func TestProcessExtractsCleanInvoice(t *testing.T) {
	p := newProcessor(t, batch.WithWorkers(1))
	rep, invoices := p.Process(context.Background(), []docsrc.Document{
		{ID: "only", Text: cleanInvoiceText},
	})

	inv := invoices[0]
	if inv == nil {
		t.Fatal("invoices[0] = nil")
	}
	if inv.InvoiceNumber == nil || *inv.InvoiceNumber != "INV-1" {
		t.Errorf("invoice_number = %v, want INV-1", inv.InvoiceNumber)
	}
	if inv.GrossTotal == nil || *inv.GrossTotal != 110 {
		t.Errorf("gross_total = %v, want 110", inv.GrossTotal)
	}
	if !rep.Results[0].IsValid {
		t.Errorf("clean invoice invalid: %v", rep.Results[0].Errors)
	}
	if rep.Summary.ValidInvoices != 1 {
		t.Errorf("valid_invoices = %d, want 1", rep.Summary.ValidInvoices)
	}
}

func TestProcessEmptyBatch(t *testing.T) {
	p := newProcessor(t)
	rep, invoices := p.Process(context.Background(), nil)
	if len(rep.Results) != 0 || len(invoices) != 0 {
		t.Fatalf("empty batch produced %d results / %d invoices", len(rep.Results), len(invoices))
	}
	if rep.Summary.TotalInvoices != 0 {
		t.Errorf("total_invoices = %d, want 0", rep.Summary.TotalInvoices)
	}
}
