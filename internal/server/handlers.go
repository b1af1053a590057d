package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"invoice-qc/internal/docsrc"
)

// validateJSONRequest is a caller-submitted batch of Invoice JSON objects.
// Members are kept raw so each one can be shape-checked independently; a bad
// member rejects that record, not the whole request.
type validateJSONRequest struct {
	Invoices []json.RawMessage `json:"invoices"`
}

// extractRequest carries already-decoded document texts for one batch.
type extractRequest struct {
	Documents []documentPayload `json:"documents"`
}

type documentPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleValidateJSON(w http.ResponseWriter, r *http.Request) {
	var req validateJSONRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Invoices) == 0 {
		s.writeError(w, http.StatusBadRequest, "invoices is required")
		return
	}

	report := s.validator.ValidateJSONBatch(req.Invoices)
	s.log.Infow("validate-json",
		"invoices", report.Summary.TotalInvoices,
		"valid", report.Summary.ValidInvoices,
		"invalid", report.Summary.InvalidInvoices,
	)
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Service) handleExtractAndValidate(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 {
		s.writeError(w, http.StatusBadRequest, "documents is required")
		return
	}

	docs := make([]docsrc.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = docsrc.Document{ID: d.ID, Text: d.Text}
	}

	report, invoices := s.processor.Process(r.Context(), docs)
	s.log.Infow("extract-and-validate",
		"documents", len(docs),
		"valid", report.Summary.ValidInvoices,
		"invalid", report.Summary.InvalidInvoices,
	)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"extracted_invoices": invoices,
		"validation_report":  report,
	})
}

// decodeBody decodes a JSON request body with a size cap. Returns false after
// writing the error response.
func (s *Service) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
