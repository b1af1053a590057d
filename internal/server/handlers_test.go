package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"invoice-qc/constants"
	"invoice-qc/internal/batch"
	"invoice-qc/internal/extract"
	"invoice-qc/internal/server"
	"invoice-qc/internal/validate"
)

func newTestServer(t *testing.T, maxBodyBytes int64) *httptest.Server {
	t.Helper()
	validator, err := validate.NewValidator(nil)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	processor := batch.NewProcessor(extract.NewExtractor(nil), validator, nil, batch.WithWorkers(2))
	svc := server.NewService(zap.NewNop(), validator, processor, maxBodyBytes)
	srv := httptest.NewServer(svc.Router())
	t.Cleanup(srv.Close)
	return srv
}

func decodeResponse(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	var body map[string]string
	decodeResponse(t, resp, &body)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestValidateJSONEndpoint(t *testing.T) {
	srv := newTestServer(t, 0)

	reqBody := `{"invoices": [
		{
			"invoice_number": "INV-1",
			"invoice_date": "2024-01-15",
			"due_date": "2024-02-14",
			"seller_name": "Acme",
			"buyer_name": "Globex",
			"currency": "EUR",
			"net_total": 100.0,
			"tax_amount": 10.0,
			"gross_total": 110.0,
			"line_items": []
		},
		{"invoice_number": "INV-2", "currency": "GBP"}
	]}`

	resp, err := http.Post(srv.URL+"/validate-json", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var rep validate.BatchReport
	decodeResponse(t, resp, &rep)

	if rep.Summary.TotalInvoices != 2 || rep.Summary.ValidInvoices != 1 || rep.Summary.InvalidInvoices != 1 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if !rep.Results[0].IsValid {
		t.Errorf("first invoice invalid: %v", rep.Results[0].Errors)
	}
	found := false
	for _, code := range rep.Results[1].Errors {
		if code == constants.CodeInvalidCurrency {
			found = true
		}
	}
	if !found {
		t.Errorf("second invoice errors = %v, want currency violation", rep.Results[1].Errors)
	}
}

func TestValidateJSONRequiresInvoices(t *testing.T) {
	srv := newTestServer(t, 0)
	for _, body := range []string{`{}`, `{"invoices": []}`} {
		resp, err := http.Post(srv.URL+"/validate-json", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status for %q = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestValidateJSONMalformedBody(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, err := http.Post(srv.URL+"/validate-json", "application/json", strings.NewReader(`{{{`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestValidateJSONBodyTooLarge(t *testing.T) {
	srv := newTestServer(t, 64)
	big := `{"invoices": [` + strings.Repeat(`{"invoice_number": "INV-PADDING-0000"},`, 50)
	big = strings.TrimSuffix(big, ",") + `]}`
	resp, err := http.Post(srv.URL+"/validate-json", "application/json", strings.NewReader(big))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestExtractAndValidateEndpoint(t *testing.T) {
	srv := newTestServer(t, 0)

	text := "Invoice Number: INV-77\nInvoice Date: 2024-01-01\nFrom: Acme\nBill To: Beta LLC\nCurrency: USD\nSubtotal: 100.00\nTax: 10.00\nGrand Total: 110.00\n"
	payload := map[string]any{
		"documents": []map[string]string{{"id": "doc-1", "text": text}},
	}
	b, _ := json.Marshal(payload)

	resp, err := http.Post(srv.URL+"/extract-and-validate", "application/json", strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		ExtractedInvoices []json.RawMessage    `json:"extracted_invoices"`
		ValidationReport  validate.BatchReport `json:"validation_report"`
	}
	decodeResponse(t, resp, &out)

	if len(out.ExtractedInvoices) != 1 {
		t.Fatalf("extracted_invoices = %d entries, want 1", len(out.ExtractedInvoices))
	}
	rep := out.ValidationReport
	if rep.Summary.TotalInvoices != 1 || rep.Summary.ValidInvoices != 1 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if rep.Results[0].InvoiceID != "doc-1" {
		t.Errorf("invoice_id = %q, want doc-1", rep.Results[0].InvoiceID)
	}
}

func TestExtractAndValidateRequiresDocuments(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, err := http.Post(srv.URL+"/extract-and-validate", "application/json", strings.NewReader(`{"documents": []}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
